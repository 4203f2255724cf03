package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/ledger"
)

// NewBalanceCommand creates the balance command group.
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Query and mutate member balances",
	}

	var note string
	var actor string
	var nickname string

	get := &cobra.Command{
		Use:   "get <member>",
		Short: "Show a member's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			bal, err := ledger.New(s, nil).Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], bal)
			return nil
		},
	}

	deposit := &cobra.Command{
		Use:   "deposit <member> <amount>",
		Short: "Add points to a member's balance",
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

			if err := ledger.New(s, nil).Deposit(cmd.Context(), args[0], amount, note, actor, nickname); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deposited %d to %s\n", amount, args[0])
			return nil
		},
	}

	withdraw := &cobra.Command{
		Use:   "withdraw <member> <amount>",
		Short: "Remove points from a member's balance (may go negative)",
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

			if err := ledger.New(s, nil).Withdraw(cmd.Context(), args[0], amount, note, actor, nickname); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "withdrew %d from %s\n", amount, args[0])
			return nil
		},
	}

	transfer := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move points between members (two steps, not atomic)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := ledger.New(s, nil).Transfer(cmd.Context(), args[0], args[1], amount, note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transferred %d from %s to %s\n", amount, args[0], args[1])
			return nil
		},
	}

	var topN int
	top := &cobra.Command{
		Use:   "top",
		Short: "Show the members with the highest balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := ledger.New(s, nil).TopBalances(cmd.Context(), topN)
			if err != nil {
				return err
			}
			for _, r := range rows {
				name := r.Nickname
				if name == "" {
					name = r.MemberID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, r.Balance)
			}
			return nil
		},
	}
	top.Flags().IntVar(&topN, "n", 0, "number of rows (default 40)")

	var historyLimit int
	history := &cobra.Command{
		Use:   "history <member>",
		Short: "Show a member's most recent transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := ledger.New(s, nil).History(cmd.Context(), args[0], historyLimit)
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t(%s)\t%s\n",
					r.Kind, r.Amount, r.Note, r.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	history.Flags().IntVar(&historyLimit, "limit", 0, "number of rows (default 10)")

	for _, sub := range []*cobra.Command{deposit, withdraw} {
		sub.Flags().StringVar(&note, "note", "", "free-text note for the transaction log")
		sub.Flags().StringVar(&actor, "actor", "admin-cli", "acting identity recorded in the note")
		sub.Flags().StringVar(&nickname, "nickname", "", "update the member's stored display name")
	}
	transfer.Flags().StringVar(&note, "note", "", "free-text note for the transaction log")

	cmd.AddCommand(get, deposit, withdraw, transfer, top, history)
	return cmd
}
