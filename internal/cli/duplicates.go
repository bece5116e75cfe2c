package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/datahub/internal/duplicates"
	"github.com/vvka-141/datahub/internal/product"
	"github.com/vvka-141/datahub/pkg/datahub"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report product ids that occur more than once in a fetched file",
	Long: `Duplicates reads a product JSON array and, for every repeat of an id already
seen, prints the id and a structural diff against its first occurrence.
Repeats are reported, never treated as an error.`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

var duplicatesFile string

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().StringVarP(&duplicatesFile, "file", "f", datahub.DefaultOutputFile,
		"Path to the product JSON array")
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(duplicatesFile)
	if err != nil {
		return fmt.Errorf("open %s: %w: %w", duplicatesFile, datahub.ErrInvalidInput, err)
	}
	defer f.Close()

	products, err := product.ReadArray(f, duplicatesFile)
	if err != nil {
		return err
	}

	report, err := duplicates.Find(products)
	if err != nil {
		return fmt.Errorf("%w: %w", datahub.ErrInvalidInput, err)
	}
	return report.Write(cmd.OutOrStdout())
}
