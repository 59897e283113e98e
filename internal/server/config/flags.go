package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/sqlauth/internal/flagx"
)

var (
	valuedFlags = []string{
		"a", "m", "k", "d", "x", "l", "f", "n", "t",
		"auth-query", "roles-query", "permissions-query",
	}
	boolFlags = []string{"M"}
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      gRPC bind address (e.g., ":50051")
//	-m string      metrics bind address, "" disables
//	-k string      database driver: pgx, pgxpool, sqlite
//	-d string      database DSN
//	-n int         pgxpool max connections
//	-x string      hash algorithm (SHA-512, argon2id, pbkdf2-sha256, ...)
//	-l string      log level
//	-f string      log format: json or text
//	-t duration    shutdown timeout
//	-M             run migrations on startup
//	-auth-query, -roles-query, -permissions-query string
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components (such as -c) are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, valuedFlags, boolFlags)

	fs := flag.NewFlagSet("sqlauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.MaxConns, "n", config.MaxConns, "max pool connections")
	fs.StringVar(&config.HashAlgorithm, "x", config.HashAlgorithm, "hash algorithm")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "shutdown timeout")
	fs.BoolVar(&config.RunMigrations, "M", config.RunMigrations, "run migrations on startup")
	fs.StringVar(&config.AuthenticateQuery, "auth-query", config.AuthenticateQuery, "authenticate query")
	fs.StringVar(&config.RolesQuery, "roles-query", config.RolesQuery, "roles query")
	fs.StringVar(&config.PermissionsQuery, "permissions-query", config.PermissionsQuery, "permissions query")

	return fs.Parse(args)
}
