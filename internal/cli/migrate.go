package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, d *Deps) error {
				if err := d.Repos.RunMigrations(ctx, d.DB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				return a.printVersion(ctx, d)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, a.printVersion)
		},
	})
	return cmd
}

func (a *app) printVersion(ctx context.Context, d *Deps) error {
	v, err := d.Repos.MigrationVersion(ctx, d.DB)
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	fmt.Fprintf(a.out, "schema version: %d\n", v)
	return nil
}
