package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/metricmean-cli/internal/config"
	"github.com/KaramelBytes/metricmean-cli/internal/dataset"
	"github.com/KaramelBytes/metricmean-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Report flags
	flagFiles  []string
	flagReport string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "metricmean --files <file>... --report <label>",
	Short: "metricmean: per-country mean of a chosen metric across tabular files",
	Long: `metricmean reads one or more CSV/TSV/XLSX files that share a country column,
asks which metric column to aggregate, and prints the mean of that metric per
country across all files, highest first. Column names match case-insensitively.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.metricmean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	rootCmd.Flags().StringSliceVar(&flagFiles, "files", nil, "input files (CSV, TSV or XLSX); repeatable or comma-separated")
	rootCmd.Flags().StringVar(&flagReport, "report", "", "report label shown in the banner")
	_ = rootCmd.MarkFlagRequired("files")
	_ = rootCmd.MarkFlagRequired("report")
}

func loadConfig() {
	level, format := "warn", "text"
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
		level, format = c.LogLevel, c.LogFormat
	}
	if debug {
		level = "debug"
	}
	logging.Setup(rootCmd.ErrOrStderr(), level, format)
}

// datasetOptions maps the loaded configuration to reader options.
func datasetOptions() (dataset.Options, error) {
	var opt dataset.Options
	if cfg == nil {
		return opt, nil
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return opt, err
	}
	opt.Delimiter = delim
	opt.SheetName = cfg.SheetName
	return opt, nil
}
