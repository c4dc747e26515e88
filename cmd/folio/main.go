package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/logging"
	"folio/internal/scoring"
	"folio/internal/store"
)

var (
	// Global flags
	verbose bool
	cfgPath string
	dbPath  string

	// Shared state, populated in PersistentPreRunE
	logger   *zap.Logger
	cfg      *config.Config
	registry = domain.Builtin()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - portfolio scoring and analytics",
	Long: `folio scores portfolios of applications, capital projects, and
vendor contracts against weighted criteria, assigns each item a
disposition category, and serves the results through reports, a
dashboard API, and a natural-language query interface.

Typical workflow:
  folio generate applications --count 50 --out apps.csv
  folio ingest applications apps.csv
  folio score applications
  folio report applications --out apps.md
  folio serve`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Storage.DatabasePath = dbPath
		}

		return logging.Initialize(cfg.Logging.Directory, logging.Options{
			Debug:      cfg.Logging.Debug || verbose,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
}

// openPortfolio opens the configured SQLite store.
func openPortfolio() (*store.Portfolio, error) {
	return store.Open(cfg.Storage.DatabasePath)
}

// engineFor builds a scoring engine for the domain, using the profile
// configured for it or the shipped default.
func engineFor(d domain.Domain) (*scoring.Engine, error) {
	profile := scoring.DefaultProfile(d)
	if path := cfg.Profiles[d.Name]; path != "" {
		var err error
		profile, err = scoring.LoadProfile(path, d)
		if err != nil {
			return nil, err
		}
	}
	return scoring.NewEngine(d, profile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
