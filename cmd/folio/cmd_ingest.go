package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [domain] [file.csv]",
	Short: "Load portfolio records from CSV into the database",
	Long: `Validates and loads a CSV file of portfolio records. The load is
all-or-nothing: if any row is invalid, every issue is reported and
nothing is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		records, err := ingest.LoadFile(args[1], d)
		if err != nil {
			var verr *ingest.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("%s failed validation, nothing loaded:\n", args[1])
				for _, issue := range verr.Issues {
					fmt.Printf("  %s\n", issue)
				}
				return fmt.Errorf("%d validation issues", len(verr.Issues))
			}
			return err
		}

		p, err := openPortfolio()
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.SaveRecords(records); err != nil {
			return err
		}

		logger.Info("ingested records",
			zap.String("domain", d.Name),
			zap.String("file", args[1]),
			zap.Int("count", len(records)))
		fmt.Printf("Loaded %d %s records from %s\n", len(records), d.Name, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
