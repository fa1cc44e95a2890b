package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	cfgpkg "github.com/KaramelBytes/dfprofile-cli/internal/config"
	"github.com/KaramelBytes/dfprofile-cli/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	envFile string
	debug   bool
	// HTTP flag (overrides config if set)
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dfprofile",
	Short: "dfprofile: descriptive statistics reports for tabular datasets",
	Long: `dfprofile samples a dataset (CSV, TSV, XLSX or a SQL table), computes per-column
statistics, correlations and frequency tables, and renders them as an HTML report.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dfprofile/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with DATABRICKS_HOST / DATABRICKS_TOKEN")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load %s: %v\n", envFile, err)
		}
	}
	if l, err := logging.New(debug); err == nil {
		logger = l
	} else {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	logger.Debug("config loaded", zap.String("file", cfgFile), zap.Int("bins", cfg.Bins), zap.Int("sample_rows", cfg.SampleRows))
}

// effectiveConfig returns the loaded configuration or the built-in defaults.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{Bins: 10, SampleRows: 5, CorrReject: 0.9, FreqTop: 10, HighCardinality: 50, HTTPTimeoutSec: 60}
}
