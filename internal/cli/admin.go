package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/spf13/cobra"
)

func (a *app) createAdminCommand() *cobra.Command {
	var email, username, role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != models.RoleAdmin && role != models.RoleSuperAdmin {
				return fmt.Errorf("role must be %q or %q", models.RoleAdmin, models.RoleSuperAdmin)
			}

			if username == "" {
				var err error
				username, err = GetSimpleText(bufio.NewReader(cmd.InOrStdin()), "Username", a.out)
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				if username == "" {
					return errors.New("username is required")
				}
			}

			password, err := GetNewPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.with(cmd, func(ctx context.Context, d *Deps) error {
				user, err := d.Users.Register(ctx, email, username, string(password))
				if err != nil {
					return fmt.Errorf("register: %w", err)
				}
				if err := d.Repos.Users(d.DB).SetRole(ctx, user.ID, role); err != nil {
					return fmt.Errorf("grant %s: %w", role, err)
				}
				fmt.Fprintf(a.out, "created %s %s (%s)\n", role, user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "account username (prompted when empty)")
	cmd.Flags().StringVar(&role, "role", models.RoleSuperAdmin, "admin or super_admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
