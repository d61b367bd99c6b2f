package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/seed"
)

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo dataset",
		Long: `Delete every job, candidate and application, then load a dataset.

Without --file the built-in demo dataset is used.

Examples:
  # Load the demo data
  atsctl seed

  # Load a custom dataset
  atsctl seed --file fixtures.yaml`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
	cmd.Flags().String("file", "", "YAML dataset to load instead of the built-in one")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")

	ds, err := loadDataset(file)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	db, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	res, err := seed.Apply(ctx, db, ds, time.Now(), e.log)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d jobs, %d candidates, %d applications\n",
		res.Jobs, res.Candidates, res.Applications)
	return nil
}

func loadDataset(file string) (*seed.Dataset, error) {
	if file == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return seed.Parse(data)
}
