package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// strings such as "10s". Zero values leave the current setting untouched.
type JsonConfig struct {
	EndpointAddrGRPC  string `json:"endpoint_addr_grpc"`
	MetricsAddr       string `json:"metrics_addr"`
	DatabaseDriver    string `json:"database_driver"`
	DatabaseDSN       string `json:"database_dsn"`
	MaxConns          int    `json:"max_conns"`
	AuthenticateQuery string `json:"authenticate_query"`
	RolesQuery        string `json:"roles_query"`
	PermissionsQuery  string `json:"permissions_query"`
	HashAlgorithm     string `json:"hash_algorithm"`
	LogLevel          string `json:"log_level"`
	LogFormat         string `json:"log_format"`
	RunMigrations     *bool  `json:"run_migrations"`
	ShutdownTimeout   string `json:"shutdown_timeout"`
}

// ApplyFile overlays the JSON file at path onto config.
func ApplyFile(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AuthenticateQuery, c.AuthenticateQuery)
	setString(&config.RolesQuery, c.RolesQuery)
	setString(&config.PermissionsQuery, c.PermissionsQuery)
	setString(&config.HashAlgorithm, c.HashAlgorithm)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.MaxConns != 0 {
		config.MaxConns = c.MaxConns
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
	if c.ShutdownTimeout != "" {
		d, err := time.ParseDuration(c.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %s: shutdown_timeout: %w", path, err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
