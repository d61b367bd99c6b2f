package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/server"
)

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the /api/v1 HTTP server.

Migrations run first when database.auto_migrate is set. The server drains
in-flight requests on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Connect(ctx, e.cfg.Database, e.log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			server.Version = version
			srv, err := server.New(e.cfg, db, e.log)
			if err != nil {
				return err
			}
			if err := srv.Run(ctx); err != nil {
				return err
			}
			e.log.Info("Server stopped", zap.String("version", version))
			return nil
		},
	}
}
