package datahub

import (
	"fmt"
	"time"
)

// FetchConfig contains all parameters needed for a paged catalog fetch.
type FetchConfig struct {
	// Endpoint is the GraphQL endpoint URL
	Endpoint string

	// APIKey is the subscription key sent in the APIKeyHeader header
	APIKey string

	// QueryFile is the path of the GraphQL query document.
	// Empty selects the built-in product query.
	QueryFile string

	// OutputPath is the JSON file the accumulated products are written to
	OutputPath string

	// PageSize is the $limit variable of each request
	PageSize int

	// MaxOffset is the exclusive upper bound of the $offset variable
	MaxOffset int

	// Delay is the pacing wait before every request; zero disables pacing
	Delay time.Duration

	// Timeout is the HTTP timeout of a single request; zero means no timeout
	Timeout time.Duration
}

// Validate checks if the FetchConfig has all required fields and valid values.
// Multiple validation failures are joined on one line.
func (c *FetchConfig) Validate() error {
	var errs []error

	if c.Endpoint == "" {
		errs = append(errs, fmt.Errorf("Endpoint is required: %w", ErrInvalidConfig))
	}

	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s is not set: %w", APIKeyEnvVar, ErrInvalidConfig))
	}

	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d: %w", c.PageSize, ErrInvalidConfig))
	}

	if c.MaxOffset <= 0 {
		errs = append(errs, fmt.Errorf("max offset must be positive, got %d: %w", c.MaxOffset, ErrInvalidConfig))
	}

	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return JoinErrors(errs...)
}

// LoadConfig contains all parameters needed for a load run.
type LoadConfig struct {
	// FilePath is the JSON array input file
	FilePath string

	// UseStdin reads the JSON array from standard input; takes precedence over FilePath
	UseStdin bool

	// EnsureSchema creates the extension, table and indexes when missing
	EnsureSchema bool

	// CommitEvery commits the transaction after this many upserted rows.
	// Zero commits only once at the end.
	CommitEvery int

	// Languages is the display-name language preference, most preferred first
	Languages []string

	// Connection holds the resolved database connection parameters
	Connection *ConnectionConfig
}

// Validate checks if the LoadConfig has all required fields and valid values.
// Multiple validation failures are joined on one line.
func (c *LoadConfig) Validate() error {
	var errs []error

	if !c.UseStdin && c.FilePath == "" {
		errs = append(errs, fmt.Errorf("provide --file PATH or use --stdin: %w", ErrInvalidConfig))
	}

	if c.CommitEvery < 0 {
		errs = append(errs, fmt.Errorf("commit-every cannot be negative, got %d: %w", c.CommitEvery, ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}

	return JoinErrors(errs...)
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Additional connection parameters
	AppName        string
	ConnectTimeout time.Duration
}
