// Package report renders scored portfolio domains as markdown
// documents: executive summary, category breakdown, and per-category
// record tables with recommendation notes.
package report

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"folio/internal/analytics"
	"folio/internal/domain"
	"folio/internal/logging"
	"folio/internal/scoring"
)

// Options controls report contents.
type Options struct {
	TopN        int       // movers section size; default 5
	GeneratedAt time.Time // defaults to time.Now()
}

// notes holds the per-category recommendation sentence appended to each
// category section.
var notes = map[string]string{
	domain.CategoryInvest:    "Healthy and strategically valuable. Fund enhancements and deepen adoption.",
	domain.CategoryTolerate:  "Serviceable but not a differentiator. Keep running with minimal spend.",
	domain.CategoryMigrate:   "Valuable capability on a weak foundation. Plan replacement or re-platforming.",
	domain.CategoryEliminate: "Low value and low health. Schedule decommissioning and reclaim the spend.",

	domain.CategoryAccelerate: "Strong returns with high confidence. Pull forward where resourcing allows.",
	domain.CategoryContinue:   "On track. Maintain current funding and cadence.",
	domain.CategoryReassess:   "Weakening business case. Re-baseline scope, schedule, and benefits.",
	domain.CategoryHold:       "Fundamentals do not support continued spend. Pause pending executive review.",

	domain.CategoryRenew:       "Performing vendor at a fair price. Begin renewal ahead of expiry.",
	domain.CategoryMonitor:     "Acceptable today. Track performance and revisit at the next review cycle.",
	domain.CategoryRenegotiate: "Value gap against market. Open commercial renegotiation.",
	domain.CategoryExit:        "Underperforming or redundant. Plan transition and exit.",
}

const reportTemplate = `# {{.Title}} Report

Generated: {{.GeneratedAt}}

## Executive Summary

- Items scored: **{{.Summary.Count}}**
- Mean score: **{{printf "%.1f" .Summary.MeanScore}}** (min {{printf "%.1f" .Summary.MinScore}}, max {{printf "%.1f" .Summary.MaxScore}})
- Total annual cost: **{{money .Summary.TotalCost}}**
{{- if .Summary.Flagged}}
- Items with incomplete data: **{{.Summary.Flagged}}**
{{- end}}

## Category Breakdown

| Category | Items | Share | Mean Score | Annual Cost |
|----------|------:|------:|-----------:|------------:|
{{- range .Breakdown}}
| {{.Category}} | {{.Count}} | {{printf "%.0f" .Percent}}% | {{printf "%.1f" .MeanScore}} | {{money .Cost}} |
{{- end}}

## Strongest Items

{{range $i, $r := .Top}}{{inc $i}}. **{{$r.Name}}** — {{printf "%.1f" $r.Score}} ({{$r.Category}})
{{end}}
## Weakest Items

{{range $i, $r := .Bottom}}{{inc $i}}. **{{$r.Name}}** — {{printf "%.1f" $r.Score}} ({{$r.Category}})
{{end}}
{{- range .Sections}}
## {{.Category}} ({{len .Results}})

{{.Note}}

| Item | Score |{{if .HasFlags}} Flags |{{end}}
|------|------:|{{if .HasFlags}}-------|{{end}}
{{- $hasFlags := .HasFlags}}
{{- range .Results}}
| {{.Name}} | {{printf "%.1f" .Score}} |{{if $hasFlags}} {{join .Flags ", "}} |{{end}}
{{- end}}
{{end}}`

type section struct {
	Category string
	Note     string
	Results  []scoring.Result
	HasFlags bool
}

type reportData struct {
	Title       string
	GeneratedAt string
	Summary     analytics.Summary
	Breakdown   []analytics.CategorySlice
	Top         []scoring.Result
	Bottom      []scoring.Result
	Sections    []section
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"join":  strings.Join,
	"money": formatMoney,
}).Parse(reportTemplate))

// Render produces the markdown report for one scored domain.
func Render(d domain.Domain, results []scoring.Result, records []domain.Record, opts Options) (string, error) {
	timer := logging.StartTimer(logging.CategoryReport, "report.Render")
	defer timer.Stop()

	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	data := reportData{
		Title:       d.Title,
		GeneratedAt: opts.GeneratedAt.Format("2006-01-02 15:04 MST"),
		Summary:     analytics.Summarize(d, results, records),
		Breakdown:   analytics.Breakdown(d, results, records),
		Top:         analytics.TopN(results, opts.TopN),
		Bottom:      analytics.BottomN(results, opts.TopN),
	}

	for _, cat := range d.Categories {
		var sec section
		sec.Category = cat
		sec.Note = notes[cat]
		for _, r := range results {
			if r.Category == cat {
				sec.Results = append(sec.Results, r)
				if len(r.Flags) > 0 {
					sec.HasFlags = true
				}
			}
		}
		if len(sec.Results) == 0 {
			continue
		}
		scoring.SortByScore(sec.Results)
		data.Sections = append(data.Sections, sec)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	logging.Report("rendered %s report (%d items)", d.Name, len(results))
	return b.String(), nil
}

// WriteFile renders the report and writes it to path.
func WriteFile(path string, d domain.Domain, results []scoring.Result, records []domain.Record, opts Options) error {
	out, err := Render(d, results, records, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
