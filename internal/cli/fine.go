package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/fines"
)

// NewFineCommand creates the fine command group.
//
// The admin CLI runs without platform adapters, so fine alerts are not
// sent from here; the bot process wires a notifier into the fine engine.
func NewFineCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fine",
		Short: "Issue and close punitive fines",
	}

	var reason string
	var actor string

	issue := &cobra.Command{
		Use:   "issue <member> <amount>",
		Short: "Open a fine and reconcile the member's balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := fines.New(s, nil, nil).Issue(cmd.Context(), args[0], amount, reason, actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fine %d issued against %s for %d\n", id, args[0], amount)
			return nil
		},
	}
	issue.Flags().StringVar(&reason, "reason", "No reason given", "reason shown on the fine")
	issue.Flags().StringVar(&actor, "actor", "admin-cli", "issuing identity")

	closeCmd := &cobra.Command{
		Use:   "close <fine-id>",
		Short: "Close a fine and reconcile the member's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("fine id: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := fines.New(s, nil, nil).Close(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fine %d closed\n", id)
			return nil
		},
	}

	cmd.AddCommand(issue, closeCmd)
	return cmd
}
