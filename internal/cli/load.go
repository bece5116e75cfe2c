package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/datahub/internal/db"
	"github.com/vvka-141/datahub/internal/logging"
	"github.com/vvka-141/datahub/internal/services"
	"github.com/vvka-141/datahub/pkg/datahub"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Upsert a product JSON array into public.products",
	Long: `Load reads a JSON array of products, flattens each one into a row and upserts
it into public.products keyed by product id. Elements that are not objects are
skipped; a product without id or name aborts the run.

Connection parameters come from the standard PostgreSQL environment variables:
  PGHOST, PGDATABASE, PGUSER, PGPASSWORD   required
  PGPORT                                   default 5432
  PGSSLMODE                                optional

Examples:
  # First run on a fresh database
  datahub load --file all_products_all_data.json --ensure-schema

  # Pipe from another tool, one commit at the end
  cat products.json | datahub load --stdin --commit-every 0`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	file                string
	stdin, ensureSchema bool
	commitEvery         int
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&loadFlags.file, "file", "f", "",
		"Path to the product JSON array")
	loadCmd.Flags().BoolVar(&loadFlags.stdin, "stdin", false,
		"Read the product JSON array from standard input (wins over --file)")
	loadCmd.Flags().BoolVar(&loadFlags.ensureSchema, "ensure-schema", false,
		"Create the postgis extension, table and indexes if missing")
	loadCmd.Flags().IntVar(&loadFlags.commitEvery, "commit-every", datahub.DefaultCommitEvery,
		"Commit every N rows (0 commits only at the end)")
}

// buildLoadConfig checks the input source, merges datahub.yaml and resolves
// the connection from the environment.
func buildLoadConfig(cmd *cobra.Command) (datahub.LoadConfig, error) {
	_ = godotenv.Load()

	if !loadFlags.stdin && loadFlags.file == "" {
		return datahub.LoadConfig{}, fmt.Errorf("provide --file PATH or use --stdin: %w", datahub.ErrInvalidConfig)
	}

	projectCfg, err := loadProjectConfig(cmd)
	if err != nil {
		return datahub.LoadConfig{}, err
	}

	commitEvery := loadFlags.commitEvery
	if !cmd.Flags().Changed("commit-every") && projectCfg.Load.CommitEvery != nil {
		commitEvery = *projectCfg.Load.CommitEvery
	}

	languages := datahub.DefaultLanguages
	if len(projectCfg.Load.Languages) > 0 {
		languages = projectCfg.Load.Languages
	}

	connConfig, err := db.ResolveConnectionParams(db.LoadFromEnvironment())
	if err != nil {
		return datahub.LoadConfig{}, err
	}

	return datahub.LoadConfig{
		FilePath:     loadFlags.file,
		UseStdin:     loadFlags.stdin,
		EnsureSchema: loadFlags.ensureSchema,
		CommitEvery:  commitEvery,
		Languages:    languages,
		Connection:   connConfig,
	}, nil
}

func runLoad(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildLoadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	svc := services.NewLoadService(db.NewConnector, logger, cmd.InOrStdin())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := svc.Load(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: upserted %d products.\n", n)
	return nil
}
