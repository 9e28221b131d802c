package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newJournalCommand(app *appContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the most recent journaled model outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}
			if app.cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			repo, db, err := app.journal(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := repo.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderJournal(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")
	return cmd
}
