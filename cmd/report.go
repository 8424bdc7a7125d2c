package cmd

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/metricmean-cli/internal/aggregate"
	"github.com/KaramelBytes/metricmean-cli/internal/dataset"
	"github.com/KaramelBytes/metricmean-cli/internal/report"
	"github.com/KaramelBytes/metricmean-cli/internal/selector"
	"github.com/KaramelBytes/metricmean-cli/internal/stats"
	"github.com/spf13/cobra"
)

func runReport(cmd *cobra.Command, _ []string) error {
	opt, err := datasetOptions()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	files := flagFiles
	slog.Debug("report started", slog.Any("files", files), slog.String("report", flagReport))

	catalog := func(path string) ([]string, error) { return dataset.Columns(path, opt) }
	metric, err := selector.New(files, catalog, out).Run(cmd.InOrStdin())
	if err != nil {
		return err
	}

	g, skips, err := aggregate.Collect(files, metric, opt)
	if err != nil {
		return err
	}
	for _, s := range skips {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", s)
	}

	means, err := stats.Means(g)
	if err != nil {
		return err
	}
	if len(means) == 0 {
		fmt.Fprintf(out, "No data found for metric %q\n", metric)
		return nil
	}
	return report.Render(out, means, report.Options{Label: flagReport, Metric: metric})
}
