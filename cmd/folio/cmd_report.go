package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/report"
	"folio/internal/store"
)

var (
	reportOut string
	reportTop int
)

var reportCmd = &cobra.Command{
	Use:   "report [domain]",
	Short: "Render a markdown report from the latest score run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		p, err := openPortfolio()
		if err != nil {
			return err
		}
		defer p.Close()

		run, err := p.LatestRun(d.Name)
		if errors.Is(err, store.ErrNoRuns) {
			return fmt.Errorf("no score runs for %s, run 'folio score %s' first", d.Name, d.Name)
		}
		if err != nil {
			return err
		}
		results, err := p.RunResults(run.ID)
		if err != nil {
			return err
		}
		records, err := p.LoadRecords(d.Name)
		if err != nil {
			return err
		}

		opts := report.Options{TopN: reportTop, GeneratedAt: time.Now()}
		out := reportOut
		if out == "" {
			out = d.Name + "-report.md"
		}
		if err := report.WriteFile(out, d, results, records, opts); err != nil {
			return err
		}

		logger.Info("rendered report",
			zap.String("domain", d.Name),
			zap.Int64("run", run.ID),
			zap.String("path", out))
		fmt.Printf("Wrote %s report (run %d, %d records) to %s\n", d.Name, run.ID, len(results), out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output path (default <domain>-report.md)")
	reportCmd.Flags().IntVar(&reportTop, "top", 5, "rows in the strongest/weakest lists")
	rootCmd.AddCommand(reportCmd)
}
