package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"folio/internal/domain"
	"folio/internal/scoring"
	"folio/internal/store"
)

var (
	scoreAll     bool
	scoreProfile string
	scoreTop     int
)

var scoreCmd = &cobra.Command{
	Use:   "score [domain]",
	Short: "Score stored records and record a run",
	Long: `Scores every stored record in a domain against its weighted profile,
assigns categories, and records the results as a new score run. The
latest run per domain backs reports, the dashboard, and queries.

With --all, every domain that has records is scored concurrently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreAll == (len(args) == 1) {
			return fmt.Errorf("specify a domain or --all, not both")
		}
		if scoreAll && scoreProfile != "" {
			return fmt.Errorf("--profile applies to a single domain")
		}

		p, err := openPortfolio()
		if err != nil {
			return err
		}
		defer p.Close()

		if !scoreAll {
			d, err := registry.Get(args[0])
			if err != nil {
				return err
			}
			return scoreDomain(p, d)
		}

		var g errgroup.Group
		for _, d := range registry.Domains() {
			d := d
			g.Go(func() error { return scoreDomain(p, d) })
		}
		return g.Wait()
	},
}

// printMu keeps concurrent per-domain output from interleaving.
var printMu sync.Mutex

func scoreDomain(p *store.Portfolio, d domain.Domain) error {
	records, err := p.LoadRecords(d.Name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		if scoreAll {
			logger.Debug("no records, skipping", zap.String("domain", d.Name))
			return nil
		}
		return fmt.Errorf("no %s records stored, run ingest or generate --store first", d.Name)
	}

	eng, err := buildEngine(d)
	if err != nil {
		return err
	}

	results := eng.ScoreAll(records)
	scoring.SortByScore(results)
	run, err := p.SaveRun(d.Name, eng.Profile().Fingerprint(), results)
	if err != nil {
		return err
	}
	logger.Info("scored domain",
		zap.String("domain", d.Name),
		zap.Int64("run", run.ID),
		zap.Int("records", len(results)))

	printMu.Lock()
	defer printMu.Unlock()
	fmt.Printf("%s: scored %d records (run %d)\n", d.Name, len(results), run.ID)
	top := scoreTop
	if top > len(results) {
		top = len(results)
	}
	for i := 0; i < top; i++ {
		r := results[i]
		fmt.Printf("  %2d. %-36s %6.2f  %s\n", i+1, r.Name, r.Score, r.Category)
	}
	return nil
}

// buildEngine honors the --profile flag over the configured profile.
func buildEngine(d domain.Domain) (*scoring.Engine, error) {
	if scoreProfile == "" {
		return engineFor(d)
	}
	profile, err := scoring.LoadProfile(scoreProfile, d)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(d, profile)
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "score every domain with stored records")
	scoreCmd.Flags().StringVar(&scoreProfile, "profile", "", "scoring profile YAML (overrides config)")
	scoreCmd.Flags().IntVar(&scoreTop, "top", 5, "ranked rows to print per domain")
	rootCmd.AddCommand(scoreCmd)
}
