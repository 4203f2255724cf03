package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var credentialsFile string
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Mirror every relation into the officers' spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spreadsheetID == "" {
				return fmt.Errorf("--spreadsheet is required")
			}

			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			writer, err := export.NewSheetsWriter(cmd.Context(), credentialsFile, spreadsheetID)
			if err != nil {
				return err
			}
			return export.New(s, writer, nil).Export(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&credentialsFile, "credentials", "service-account.json", "service-account credentials file")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "target spreadsheet id")
	return cmd
}
