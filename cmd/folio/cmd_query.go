package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [question...]",
	Short: "Ask a natural-language question about the scored portfolios",
	Long: `Answers plain-English questions against the latest score runs, e.g.:

  folio query top 10 applications
  folio query how many contracts should we exit
  folio query total cost of projects on hold
  folio query breakdown of applications`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortfolio()
		if err != nil {
			return err
		}
		defer p.Close()

		snaps, err := loadSnapshots(p)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return fmt.Errorf("no score runs recorded, run 'folio score --all' first")
		}

		text := strings.Join(args, " ")
		intent := query.NewParser(registry).Parse(text)
		answer := query.NewAnswerer(registry, snaps).Answer(intent)
		fmt.Println(answer.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
