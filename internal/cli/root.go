// Package cli implements the atsctl command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/logging"
)

// newLogger is swapped in tests to keep output quiet.
var newLogger = logging.New

// NewRootCommand builds atsctl with all subcommands attached.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "atsctl",
		Short:         "Applicant tracking server and tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default ./ats.yaml)")

	root.AddCommand(
		newServeCommand(version),
		newMigrateCommand(),
		newSeedCommand(),
		newReportCommand(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, version string, args []string) error {
	root := NewRootCommand(version)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// env is what every subcommand needs before doing work.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

// openDB connects without migrating; callers decide whether to migrate.
func (e *env) openDB(ctx context.Context) (*gorm.DB, error) {
	dbCfg := e.cfg.Database
	dbCfg.AutoMigrate = false
	db, err := database.Connect(ctx, dbCfg, e.log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
