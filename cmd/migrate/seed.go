package main

import (
	"context"

	"github.com/spf13/cobra"

	"pathexplorer/internal/database/seeder"
)

func newSeedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo projects, roles and optionally demo employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			r := seeder.Runner{
				Seeders: seeder.Defaults(e.v.GetString("SEED_DEMO_PASSWORD")),
				Logger:  e.logger.Named("seed"),
			}
			return r.Run(ctx, e.db)
		},
	}
	cmd.Flags().String("demo-password", "", "create demo employees sharing this password")
	_ = e.v.BindPFlag("SEED_DEMO_PASSWORD", cmd.Flags().Lookup("demo-password"))
	return cmd
}
