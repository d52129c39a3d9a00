package main

import (
	"github.com/spf13/cobra"

	"github.com/kursadbilgin/asp-relay/internal/infra/postgresql/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := migrations.Migrate(rt.db); err != nil {
				return err
			}

			rt.logger.Info("migrations applied")
			return nil
		},
	}
}
