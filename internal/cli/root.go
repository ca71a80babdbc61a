// Package cli implements the salesctl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediasales/internal/storage"
)

type RootOptions struct {
	DBPath string

	repo *storage.SQLiteRepository
}

func NewRootCmd() *cobra.Command {
	opts := &RootOptions{
		DBPath: "./data/mediasales.db",
	}

	cmd := &cobra.Command{
		Use:           "salesctl",
		Short:         "salesctl inspects and loads media booking data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRepository(opts.DBPath)
			if err != nil {
				return fmt.Errorf("initialize sqlite: %w", err)
			}
			opts.repo = repo
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.repo != nil {
				if err := opts.repo.Close(); err != nil {
					return fmt.Errorf("close sqlite db: %w", err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", opts.DBPath, "SQLite database path")

	cmd.AddCommand(
		NewReportCmd(opts),
		NewImportCmd(opts),
	)

	return cmd
}
