package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sqlauth/internal/server/config"
)

// ErrDenied is returned by check when the principal lacks a name, so the
// process exits non-zero.
var ErrDenied = errors.New("denied")

// globals holds the persistent flags and the config resolved from them.
type globals struct {
	configPath string
	driver     string
	dsn        string
	hash       string
	server     string

	cfg *config.Config
}

// NewRootCmd builds the authctl command tree on env.
func NewRootCmd(env *Env) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "authctl",
		Short: "sqlauth administration client",
		Long: `authctl manages the users, roles and permissions sqlauth authenticates
against, and can verify credentials either locally or through authd.

Use "authctl [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			g.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "path to JSON config file")
	pf.StringVar(&g.driver, "driver", "", "database driver (pgx, pgxpool, sqlite)")
	pf.StringVar(&g.dsn, "dsn", "", "database connection string")
	pf.StringVar(&g.hash, "hash", "", "password hash algorithm")
	pf.StringVar(&g.server, "server", "", "authd gRPC address for login and check; empty uses the database")

	root.AddCommand(
		newMigrateCmd(env, g),
		newUserCmd(env, g),
		newGrantCmd(env, g),
		newRevokeCmd(env, g),
		newLoginCmd(env, g),
		newCheckCmd(env, g),
	)
	root.CompletionOptions.DisableDefaultCmd = true

	return root
}

// Execute runs authctl against real backends.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd(DefaultEnv())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// load layers defaults, the optional JSON file and explicit flags. The
// CLI logs warnings only, as text.
func (g *globals) load() (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "text"

	if g.configPath != "" {
		if err := config.ApplyFile(cfg, g.configPath); err != nil {
			return nil, err
		}
	}
	if g.driver != "" {
		cfg.DatabaseDriver = g.driver
	}
	if g.dsn != "" {
		cfg.DatabaseDSN = g.dsn
	}
	if g.hash != "" {
		cfg.HashAlgorithm = g.hash
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
