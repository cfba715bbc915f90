package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations that are not applied yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			pending, err := e.runner().Pending(ctx, e.db.SQLDB())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "up to date")
				return nil
			}
			for _, m := range pending {
				fmt.Fprintf(out, "pending V%d %s\n", m.Version, m.Name)
			}
			return nil
		},
	}
}
