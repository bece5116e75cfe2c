package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/datahub/pkg/datahub"
)

// EnvVars represents the PostgreSQL standard environment variables the loader reads.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST     string // PostgreSQL server host (required)
	PGPORT     string // PostgreSQL server port (default 5432)
	PGDATABASE string // Database name (required)
	PGUSER     string // PostgreSQL username (required)
	PGPASSWORD string // PostgreSQL password (required)
	PGSSLMODE  string // SSL mode (optional)

	PGCONNECT_TIMEOUT string // Connect timeout in whole seconds (optional)
}

// LoadFromEnvironment loads PostgreSQL environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:     os.Getenv("PGHOST"),
		PGPORT:     os.Getenv("PGPORT"),
		PGDATABASE: os.Getenv("PGDATABASE"),
		PGUSER:     os.Getenv("PGUSER"),
		PGPASSWORD: os.Getenv("PGPASSWORD"),
		PGSSLMODE:  os.Getenv("PGSSLMODE"),

		PGCONNECT_TIMEOUT: os.Getenv("PGCONNECT_TIMEOUT"),
	}
}

// ResolveConnectionParams builds a ConnectionConfig from environment variables.
//
// Host, database, user and password are required; every missing one is named in
// a single error so an operator can fix them in one go. The port defaults to
// 5432 and the SSL mode is left to the driver when PGSSLMODE is unset.
// PGCONNECT_TIMEOUT, when set, is a non-negative number of seconds; zero
// means no connect timeout.
func ResolveConnectionParams(env *EnvVars) (*datahub.ConnectionConfig, error) {
	if env == nil {
		env = &EnvVars{}
	}

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"PGHOST", env.PGHOST},
		{"PGDATABASE", env.PGDATABASE},
		{"PGUSER", env.PGUSER},
		{"PGPASSWORD", env.PGPASSWORD},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env vars: %s: %w", strings.Join(missing, ", "), datahub.ErrInvalidConfig)
	}

	port := datahub.DefaultPort
	if env.PGPORT != "" {
		p, err := strconv.Atoi(env.PGPORT)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid PGPORT %q: %w", env.PGPORT, datahub.ErrInvalidConfig)
		}
		port = p
	}

	var connectTimeout time.Duration
	if env.PGCONNECT_TIMEOUT != "" {
		secs, err := strconv.Atoi(env.PGCONNECT_TIMEOUT)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("invalid PGCONNECT_TIMEOUT %q: %w", env.PGCONNECT_TIMEOUT, datahub.ErrInvalidConfig)
		}
		connectTimeout = time.Duration(secs) * time.Second
	}

	return &datahub.ConnectionConfig{
		Host:           env.PGHOST,
		Port:           port,
		Database:       env.PGDATABASE,
		Username:       env.PGUSER,
		Password:       env.PGPASSWORD,
		SSLMode:        env.PGSSLMODE,
		AppName:        "datahub",
		ConnectTimeout: connectTimeout,
	}, nil
}
