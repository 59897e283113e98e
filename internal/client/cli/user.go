package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

func newUserCmd(env *Env, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(env, g), newUserDeleteCmd(env, g), newUserShowCmd(env, g))
	return cmd
}

// withAdmin opens the provisioning backend for the duration of fn.
func withAdmin(ctx context.Context, env *Env, g *globals, fn func(Admin) error) error {
	a, release, err := env.OpenAdmin(ctx, g.cfg)
	if err != nil {
		return err
	}
	defer release()
	return fn(a)
}

func newUserAddCmd(env *Env, g *globals) *cobra.Command {
	var roles []string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Long: `Create a user with a salted password hash. The password is read from
the terminal, or from the first line of stdin when it is not a terminal.

Examples:
  authctl user add alice --role admin --role ops
  echo 's3cret' | authctl user add bob`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			if len(pw) == 0 {
				return errors.New("password is required")
			}

			return withAdmin(cmd.Context(), env, g, func(a Admin) error {
				u, err := a.Register(cmd.Context(), args[0], string(pw), roles...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %s created (%s)\n", u.UserName, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&roles, "role", "r", nil, "role to grant (repeatable)")
	return cmd
}

func newUserDeleteCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user and its role grants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), env, g, func(a Admin) error {
				if err := a.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func newUserShowCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user and its roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), env, g, func(a Admin) error {
				u, err := a.GetUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Username: %s\n", u.UserName)
				fmt.Fprintf(out, "ID:       %s\n", u.ID)
				if !u.CreatedAt.IsZero() {
					fmt.Fprintf(out, "Created:  %s\n", u.CreatedAt.Format(time.RFC3339))
				}
				roles := "-"
				if len(u.Roles) > 0 {
					roles = strings.Join(u.Roles, ", ")
				}
				fmt.Fprintf(out, "Roles:    %s\n", roles)
				return nil
			})
		},
	}
}
