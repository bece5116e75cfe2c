package datahub

import "time"

// Exit codes. Batch failures of every kind exit with ExitGeneralError.
const (
	ExitSuccess      = 0 // Run completed successfully
	ExitGeneralError = 1 // Any configuration, input, transport or database failure
	ExitPanic        = 3 // Internal panic (unexpected crash)
)

const (
	// DefaultEndpoint is the Business Finland travel data hub GraphQL endpoint.
	DefaultEndpoint = "https://api.businessfinland.fi/traveldatahub"

	// APIKeyEnvVar names the environment variable holding the subscription key.
	APIKeyEnvVar = "DATAHUB_API_KEY"

	// APIKeyHeader is the header the API management gateway expects the key in.
	APIKeyHeader = "ocp-apim-subscription-key"

	// DefaultPageSize is the number of products requested per page.
	DefaultPageSize = 200

	// DefaultMaxOffset bounds pagination even if the empty-page signal is never seen.
	DefaultMaxOffset = 20000

	// DefaultRequestDelay paces requests below the published limit of 60 calls per minute.
	DefaultRequestDelay = 1100 * time.Millisecond

	// DefaultRequestTimeout is the HTTP timeout of a single GraphQL request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultOutputFile is where the fetcher writes, and the loader and
	// duplicates commands conventionally read.
	DefaultOutputFile = "all_products_all_data.json"

	// DefaultCommitEvery is the number of upserted rows per transaction.
	DefaultCommitEvery = 500

	// DefaultPort is the PostgreSQL port used when PGPORT is unset.
	DefaultPort = 5432

	// DefaultConfigFile is the optional project configuration file.
	DefaultConfigFile = "datahub.yaml"
)

// DefaultLanguages is the display-name language preference, most preferred first.
var DefaultLanguages = []string{"fi", "en"}
