package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// grantOp is one of the four Admin grant mutations.
type grantOp func(a Admin, ctx context.Context, subject, name string) error

func newGrantCmd(env *Env, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a role to a user or a permission to a role",
	}
	cmd.AddCommand(
		grantSubcommand(env, g, "role <username> <role>", "Grant a role to a user", "Granted role %[2]s to %[1]s\n", Admin.GrantRole),
		grantSubcommand(env, g, "permission <role> <permission>", "Grant a permission to a role", "Granted permission %[2]s to role %[1]s\n", Admin.GrantPermission),
	)
	return cmd
}

func newRevokeCmd(env *Env, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a role from a user or a permission from a role",
	}
	cmd.AddCommand(
		grantSubcommand(env, g, "role <username> <role>", "Revoke a role from a user", "Revoked role %[2]s from %[1]s\n", Admin.RevokeRole),
		grantSubcommand(env, g, "permission <role> <permission>", "Revoke a permission from a role", "Revoked permission %[2]s from role %[1]s\n", Admin.RevokePermission),
	)
	return cmd
}

func grantSubcommand(env *Env, g *globals, use, short, done string, op grantOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), env, g, func(a Admin) error {
				if err := op(a, cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), done, args[0], args[1])
				return nil
			})
		},
	}
}
