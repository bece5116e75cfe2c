package db

import (
	"strconv"
	"strings"

	"github.com/vvka-141/datahub/pkg/datahub"
)

// BuildConnectionString converts a ConnectionConfig to a keyword/value
// connection string for pgx. Values are single-quoted, so Unix socket
// directories and IPv6 literals pass through as PGHOST gives them.
func BuildConnectionString(config *datahub.ConnectionConfig) string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteValue(value))
		}
	}

	add("host", config.Host)
	if config.Port > 0 {
		add("port", strconv.Itoa(config.Port))
	}
	add("dbname", config.Database)
	add("user", config.Username)
	add("password", config.Password)
	add("sslmode", config.SSLMode)
	add("application_name", config.AppName)
	if config.ConnectTimeout > 0 {
		add("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	return strings.Join(parts, " ")
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteValue(v string) string {
	return "'" + valueEscaper.Replace(v) + "'"
}

// RedactedConnectionString is BuildConnectionString with the password masked,
// suitable for verbose logs.
func RedactedConnectionString(config *datahub.ConnectionConfig) string {
	masked := *config
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return BuildConnectionString(&masked)
}
