package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/datahub/internal/logging"
	"github.com/vvka-141/datahub/internal/services"
	"github.com/vvka-141/datahub/pkg/datahub"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the full product catalog to a JSON file",
	Long: `Fetch pages through the product catalog with $limit/$offset, one request at a
time and paced by --delay, until a page comes back empty or --max-offset is
reached. The products are written as one tab-indented JSON array.

Any failed request aborts the run and no output file is written.

The subscription key is read from $DATAHUB_API_KEY.

Examples:
  # Full catalog with defaults
  datahub fetch

  # Custom query document and output file
  datahub fetch --query all_products.graphql --output products.json`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

type fetchFlagValues struct {
	endpoint, queryFile, output string
	pageSize, maxOffset         int
	delay, timeout              time.Duration
}

var fetchFlags fetchFlagValues

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFlags.endpoint, "endpoint", datahub.DefaultEndpoint,
		"GraphQL endpoint URL")
	fetchCmd.Flags().StringVar(&fetchFlags.queryFile, "query", "",
		"GraphQL query document declaring $limit and $offset (default: built-in product query)")
	fetchCmd.Flags().StringVarP(&fetchFlags.output, "output", "o", datahub.DefaultOutputFile,
		"Output JSON file")
	fetchCmd.Flags().IntVar(&fetchFlags.pageSize, "page-size", datahub.DefaultPageSize,
		"Products per request")
	fetchCmd.Flags().IntVar(&fetchFlags.maxOffset, "max-offset", datahub.DefaultMaxOffset,
		"Stop paging at this offset even without an empty page")
	fetchCmd.Flags().DurationVar(&fetchFlags.delay, "delay", datahub.DefaultRequestDelay,
		"Wait before every request (0 disables pacing)")
	fetchCmd.Flags().DurationVar(&fetchFlags.timeout, "timeout", datahub.DefaultRequestTimeout,
		"HTTP timeout of a single request; a timeout aborts the run")
}

// buildFetchConfig merges defaults, datahub.yaml and explicitly set flags.
func buildFetchConfig(cmd *cobra.Command) (datahub.FetchConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(cmd)
	if err != nil {
		return datahub.FetchConfig{}, err
	}
	file := projectCfg.Fetch

	cfg := datahub.FetchConfig{
		Endpoint:   pickString(cmd, "endpoint", fetchFlags.endpoint, file.Endpoint),
		APIKey:     os.Getenv(datahub.APIKeyEnvVar),
		QueryFile:  pickString(cmd, "query", fetchFlags.queryFile, file.QueryFile),
		OutputPath: pickString(cmd, "output", fetchFlags.output, file.Output),
		PageSize:   pickInt(cmd, "page-size", fetchFlags.pageSize, file.PageSize),
		MaxOffset:  pickInt(cmd, "max-offset", fetchFlags.maxOffset, file.MaxOffset),
		Delay:      fetchFlags.delay,
		Timeout:    fetchFlags.timeout,
	}

	if !cmd.Flags().Changed("delay") && file.Delay != "" {
		cfg.Delay, _ = file.DelayDuration()
	}
	if !cmd.Flags().Changed("timeout") && file.Timeout != "" {
		cfg.Timeout, _ = file.TimeoutDuration()
	}

	return cfg, nil
}

func runFetch(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildFetchConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	svc := services.NewFetchService(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := svc.Fetch(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %d products to %s.\n", n, cfg.OutputPath)
	return nil
}

// pickString returns the flag value when the flag was set, else the file
// value when present, else the flag default.
func pickString(cmd *cobra.Command, flag, flagValue, fileValue string) string {
	if !cmd.Flags().Changed(flag) && fileValue != "" {
		return fileValue
	}
	return flagValue
}

func pickInt(cmd *cobra.Command, flag string, flagValue, fileValue int) int {
	if !cmd.Flags().Changed(flag) && fileValue != 0 {
		return fileValue
	}
	return flagValue
}
