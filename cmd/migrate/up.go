package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUpCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			n, err := e.runner().Run(ctx, e.db.SQLDB())
			if err != nil {
				return err
			}
			e.logger.Info("migrations done", zap.Int("applied", n))
			return nil
		},
	}
}
