package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/link"
)

// NewLinkCommand creates the link command group.
func NewLinkCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage secondary-platform identity links",
	}

	generate := &cobra.Command{
		Use:   "generate <member>",
		Short: "Issue a fresh linking code for a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			code, err := link.New(s, nil, nil, nil).GenerateCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", code)
			return nil
		},
	}

	var linkedName string
	verify := &cobra.Command{
		Use:   "verify <code> <secondary-identity>",
		Short: "Redeem a linking code presented on the secondary platform",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := link.New(s, nil, nil, nil).VerifyCode(cmd.Context(), args[0], args[1], linkedName)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("code rejected")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "linked")
			return nil
		},
	}
	verify.Flags().StringVar(&linkedName, "name", "", "display name on the secondary platform")

	show := &cobra.Command{
		Use:   "show <member>",
		Short: "Show a member's linked secondary identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			linked, ok, err := link.New(s, nil, nil, nil).LinkedIdentity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no link")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", linked)
			return nil
		},
	}

	cmd.AddCommand(generate, verify, show)
	return cmd
}
