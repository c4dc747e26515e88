package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/domain"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List portfolio domains and their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range registry.Domains() {
			fmt.Printf("%s (%s)\n", d.Name, d.Title)
			fmt.Printf("  categories: %s\n", strings.Join(d.Categories, ", "))
			fmt.Println("  attributes:")
			for _, attr := range d.Attributes {
				dir := "higher is better"
				if attr.Direction == domain.LowerIsBetter {
					dir = "lower is better"
				}
				fmt.Printf("    %-24s [%g..%g] %s\n", attr.Key, attr.Min, attr.Max, dir)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(domainsCmd)
}
