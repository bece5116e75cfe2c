package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/datahub/internal/config"
	"github.com/vvka-141/datahub/pkg/datahub"
)

var rootCmd = &cobra.Command{
	Use:   "datahub",
	Short: "Travel data hub catalog fetcher and PostGIS loader",
	Long: `datahub pulls the product catalog of the travel data hub GraphQL API into a
JSON file and upserts such a file into a PostGIS-enabled PostgreSQL table.

  datahub fetch        page through the API and write all_products_all_data.json
  datahub load         upsert a product array into public.products
  datahub duplicates   report product ids that occur more than once in a file

Settings come from flags, then datahub.yaml, then built-in defaults. Secrets
come only from the environment (DATAHUB_API_KEY, PGPASSWORD); a .env file in
the working directory is read first when present.

Exit Codes:
  0  - Success
  1  - Any error (configuration, input, transport or database)
  3  - Panic or unexpected system error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", datahub.DefaultConfigFile,
		"Project configuration file (ignored when missing unless set explicitly)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// loadProjectConfig reads the --config file. A missing default file yields an
// empty configuration; a missing file named explicitly is an error.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = datahub.DefaultConfigFile
	}

	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		if cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("config file %s not found: %w", path, datahub.ErrInvalidConfig)
		}
		return &config.ProjectConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", path, datahub.ErrInvalidConfig, err)
	}
	return cfg, nil
}
