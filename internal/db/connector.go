package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns covers one writer transaction plus headroom; the loader
	// is strictly sequential.
	DefaultMaxConns = 2

	// DefaultMaxConnIdleTime keeps the connection alive across long loads.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger datahub.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if logger != nil {
		poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
			logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
		}
	}
}

// StandardConnector implements the Connector interface for username/password
// authentication. A failed connection attempt is returned as is; batch runs are
// re-executed by an operator rather than retried.
type StandardConnector struct {
	config *datahub.ConnectionConfig
	logger datahub.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
// Server notices are forwarded to logger at verbose level; logger may be nil.
func NewStandardConnector(config *datahub.ConnectionConfig, logger datahub.Logger) *StandardConnector {
	return &StandardConnector{
		config: config,
		logger: logger,
	}
}

// Connect establishes a connection pool and pings the server.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	return pool, nil
}

// NewConnector is the connector factory used by the load service.
func NewConnector(config *datahub.ConnectionConfig, logger datahub.Logger) (datahub.Connector, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config is required: %w", datahub.ErrInvalidConfig)
	}
	return NewStandardConnector(config, logger), nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// Every returned error wraps datahub.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s (is PostgreSQL running? check PGHOST/PGPORT)", addr)
	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf("cannot resolve host %q (check PGHOST)", host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for database %q (check PGUSER/PGPASSWORD)", database)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist (check PGDATABASE)", database)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s", addr)
	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = "SSL/TLS connection error (check PGSSLMODE)"
	default:
		hint = fmt.Sprintf("failed to connect to %s/%s", addr, database)
	}

	return fmt.Errorf("%s: %w: %w", hint, datahub.ErrConnectionFailed, err)
}
