package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/party"
)

// NewPartyCommand creates the party command group.
func NewPartyCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Manage event rosters",
	}

	var creator string
	create := &cobra.Command{
		Use:   "create <info>",
		Short: "Open a party",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := party.New(s, nil, nil).Create(cmd.Context(), creator, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "party %d created\n", id)
			return nil
		},
	}
	create.Flags().StringVar(&creator, "creator", "admin-cli", "creating identity")

	deleteCmd := &cobra.Command{
		Use:   "delete <party-id>",
		Short: "Delete a party and its roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("party id: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := party.New(s, nil, nil).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "party %d deleted\n", id)
			return nil
		},
	}

	join := &cobra.Command{
		Use:   "join <party-id> <member>",
		Short: "Enroll a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("party id: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return party.New(s, nil, nil).Join(cmd.Context(), id, args[1])
		},
	}

	leave := &cobra.Command{
		Use:   "leave <party-id> <member>",
		Short: "Drop a member from the roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("party id: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return party.New(s, nil, nil).Leave(cmd.Context(), id, args[1])
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List parties with member counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := party.New(s, nil, nil).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d members\n", r.PartyID, r.Info, r.MemberCount)
			}
			return nil
		},
	}

	cmd.AddCommand(create, deleteCmd, join, leave, list)
	return cmd
}
