package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/talentra/internal/client"
	"github.com/justsurfingit/talentra/internal/dashboard"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/services"
)

// reportSource is satisfied by both the report service and the HTTP client.
type reportSource interface {
	Stats(ctx context.Context) (*dtos.Stats, error)
	Trend(ctx context.Context) ([]dtos.TrendPoint, error)
	Stale(ctx context.Context) ([]dtos.ApplicationActivity, error)
	Recent(ctx context.Context) ([]dtos.ApplicationActivity, error)
	PipelineSummary(ctx context.Context) ([]dtos.PipelineSummaryRow, error)
}

var (
	_ reportSource = (*services.ReportService)(nil)
	_ reportSource = (*client.Client)(nil)
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the hiring dashboard",
		Long: `Print headline counts, the open-job pipeline, stale and recent
applications, and the 30-day application trend.

By default the database is read directly. With --remote the API at
client.base_url is queried instead.

Examples:
  atsctl report
  atsctl report --json
  atsctl report --remote`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("remote", false, "Query the HTTP API instead of the database")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	remote, _ := cmd.Flags().GetBool("remote")

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var src reportSource
	if remote {
		src = client.New(e.cfg.Client, e.log)
	} else {
		db, err := e.openDB(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()
		src = services.NewReportService(db, e.log)
	}

	report, err := buildReport(ctx, src, time.Now().UTC())
	if err != nil {
		return err
	}
	if jsonOutput {
		return dashboard.WriteJSON(cmd.OutOrStdout(), report)
	}
	return dashboard.WriteText(cmd.OutOrStdout(), report)
}

func buildReport(ctx context.Context, src reportSource, now time.Time) (*dashboard.Report, error) {
	stats, err := src.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	trend, err := src.Trend(ctx)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	stale, err := src.Stale(ctx)
	if err != nil {
		return nil, fmt.Errorf("stale applications: %w", err)
	}
	recent, err := src.Recent(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}
	pipeline, err := src.PipelineSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline summary: %w", err)
	}
	return &dashboard.Report{
		GeneratedAt: now,
		Stats:       *stats,
		Trend:       dashboard.FillTrend(trend, now),
		Stale:       stale,
		Recent:      recent,
		Pipeline:    pipeline,
	}, nil
}
