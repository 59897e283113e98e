package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// principalEnv names the variable check falls back to when --principal is
// not given.
const principalEnv = "AUTHCTL_PRINCIPAL"

func newLoginCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate and print the principal token",
		Long: `Authenticate a user and print its serialized principal, base64 encoded.
The token can be passed to "authctl check" with --principal or through
the ` + principalEnv + ` environment variable.

Examples:
  export ` + principalEnv + `=$(authctl login alice)
  authctl check role admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			a, release, err := env.OpenAuth(cmd.Context(), g.cfg, g.server)
			if err != nil {
				return err
			}
			defer release()

			p, err := a.Authenticate(cmd.Context(), auth.Credentials{Username: args[0], Password: string(pw)})
			if err != nil {
				return err
			}
			buf, err := p.MarshalBinary()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(buf))
			return nil
		},
	}
}

func newCheckCmd(env *Env, g *globals) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a principal's roles or permissions",
		Long: `Check that a principal holds every listed role or permission. Prints
"granted" or "denied"; a denial exits non-zero.`,
	}
	cmd.PersistentFlags().StringVarP(&token, "principal", "p", "", "principal token from login (default $"+principalEnv+")")

	cmd.AddCommand(
		newCheckSubcommand(env, g, &token, "role <role>...", "Check roles", Authenticator.HasAllRoles),
		newCheckSubcommand(env, g, &token, "permission <permission>...", "Check permissions", Authenticator.HasAllPermissions),
	)
	return cmd
}

type checkAll func(a Authenticator, ctx context.Context, p *auth.Principal, names []string) (bool, error)

func newCheckSubcommand(env *Env, g *globals, token *string, use, short string, all checkAll) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decodeToken(*token)
			if err != nil {
				return err
			}

			a, release, err := env.OpenAuth(cmd.Context(), g.cfg, g.server)
			if err != nil {
				return err
			}
			defer release()

			ok, err := all(a, cmd.Context(), p, args)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "denied")
				return ErrDenied
			}
			fmt.Fprintln(cmd.OutOrStdout(), "granted")
			return nil
		},
	}
}

// decodeToken reads a base64 principal from the flag value or the environment.
func decodeToken(token string) (*auth.Principal, error) {
	if token == "" {
		token = os.Getenv(principalEnv)
	}
	if token == "" {
		return nil, fmt.Errorf("principal: %w", common.ErrMissingField)
	}
	buf, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPrincipal, err)
	}
	return auth.DecodePrincipal(buf)
}
