package query

import (
	"fmt"
	"strings"

	"folio/internal/analytics"
	"folio/internal/domain"
	"folio/internal/logging"
	"folio/internal/scoring"
)

// Snapshot is the scored state of one domain at answer time.
type Snapshot struct {
	Domain  domain.Domain
	Results []scoring.Result
	Records []domain.Record
}

// Answer is a rendered response: human text plus the structured payload
// the dashboard consumes.
type Answer struct {
	Text    string      `json:"text"`
	Payload interface{} `json:"payload,omitempty"`
}

// Answerer routes parsed intents to canned analytics over snapshots.
type Answerer struct {
	registry  *domain.Registry
	snapshots map[string]Snapshot
}

// NewAnswerer builds an answerer over per-domain snapshots.
func NewAnswerer(reg *domain.Registry, snapshots map[string]Snapshot) *Answerer {
	return &Answerer{registry: reg, snapshots: snapshots}
}

// Answer routes an intent. Queries naming no domain answer across all
// domains where that makes sense, and fall back to /help otherwise.
func (a *Answerer) Answer(intent Intent) Answer {
	logging.Query("answering %s (domain=%q category=%q)", intent.Verb, intent.Domain, intent.Category)

	switch intent.Verb {
	case VerbSummary:
		return a.summary(intent)
	case VerbTop, VerbBottom:
		return a.ranked(intent)
	case VerbCount:
		return a.count(intent)
	case VerbCost:
		return a.cost(intent)
	case VerbBreakdown:
		return a.breakdown(intent)
	default:
		return a.help(intent)
	}
}

func (a *Answerer) snapshot(name string) (Snapshot, bool) {
	s, ok := a.snapshots[name]
	return s, ok
}

// domainFor resolves the snapshot to answer from: the named domain, or
// the domain owning the mentioned category, or "" for all-domains.
func (a *Answerer) domainFor(intent Intent) string {
	if intent.Domain != "" {
		return intent.Domain
	}
	if intent.Category != "" {
		for _, d := range a.registry.Domains() {
			if d.HasCategory(intent.Category) {
				return d.Name
			}
		}
	}
	return ""
}

func (a *Answerer) summary(intent Intent) Answer {
	name := a.domainFor(intent)
	if name == "" {
		// Portfolio-wide rollup.
		var lines []string
		summaries := make(map[string]analytics.Summary)
		for _, d := range a.registry.Domains() {
			s, ok := a.snapshot(d.Name)
			if !ok {
				continue
			}
			sum := analytics.Summarize(d, s.Results, s.Records)
			summaries[d.Name] = sum
			lines = append(lines, fmt.Sprintf("%s: %d items, mean score %.1f, total cost %s",
				d.Title, sum.Count, sum.MeanScore, formatMoney(sum.TotalCost)))
		}
		if len(lines) == 0 {
			return a.help(intent)
		}
		return Answer{Text: strings.Join(lines, "\n"), Payload: summaries}
	}

	s, ok := a.snapshot(name)
	if !ok {
		return a.help(intent)
	}
	sum := analytics.Summarize(s.Domain, s.Results, s.Records)
	text := fmt.Sprintf("%s: %d items, mean score %.1f (min %.1f, max %.1f), total cost %s",
		s.Domain.Title, sum.Count, sum.MeanScore, sum.MinScore, sum.MaxScore, formatMoney(sum.TotalCost))
	return Answer{Text: text, Payload: sum}
}

func (a *Answerer) ranked(intent Intent) Answer {
	name := a.domainFor(intent)
	s, ok := a.snapshot(name)
	if !ok {
		return a.help(intent)
	}

	var picked []scoring.Result
	var label string
	if intent.Verb == VerbTop {
		picked = analytics.TopN(s.Results, intent.N)
		label = "Top"
	} else {
		picked = analytics.BottomN(s.Results, intent.N)
		label = "Bottom"
	}

	lines := []string{fmt.Sprintf("%s %d in %s:", label, len(picked), s.Domain.Title)}
	for i, r := range picked {
		lines = append(lines, fmt.Sprintf("%d. %s — %.1f (%s)", i+1, r.Name, r.Score, r.Category))
	}
	return Answer{Text: strings.Join(lines, "\n"), Payload: picked}
}

func (a *Answerer) count(intent Intent) Answer {
	name := a.domainFor(intent)
	s, ok := a.snapshot(name)
	if !ok {
		return a.help(intent)
	}

	if intent.Category == "" {
		text := fmt.Sprintf("%s has %d items.", s.Domain.Title, len(s.Results))
		return Answer{Text: text, Payload: map[string]int{"count": len(s.Results)}}
	}

	n := 0
	for _, r := range s.Results {
		if r.Category == intent.Category {
			n++
		}
	}
	text := fmt.Sprintf("%d of %d items in %s are categorized %s.",
		n, len(s.Results), s.Domain.Title, intent.Category)
	return Answer{Text: text, Payload: map[string]int{"count": n, "total": len(s.Results)}}
}

func (a *Answerer) cost(intent Intent) Answer {
	name := a.domainFor(intent)
	s, ok := a.snapshot(name)
	if !ok {
		return a.help(intent)
	}

	sum := analytics.Summarize(s.Domain, s.Results, s.Records)
	if intent.Category != "" {
		cost := sum.CostByCategory[intent.Category]
		text := fmt.Sprintf("Annual cost of %s items in %s: %s.",
			intent.Category, s.Domain.Title, formatMoney(cost))
		return Answer{Text: text, Payload: map[string]float64{"cost": cost}}
	}

	text := fmt.Sprintf("Total annual cost in %s: %s.", s.Domain.Title, formatMoney(sum.TotalCost))
	return Answer{Text: text, Payload: map[string]float64{"cost": sum.TotalCost}}
}

func (a *Answerer) breakdown(intent Intent) Answer {
	name := a.domainFor(intent)
	s, ok := a.snapshot(name)
	if !ok {
		return a.help(intent)
	}

	slices := analytics.Breakdown(s.Domain, s.Results, s.Records)
	lines := []string{fmt.Sprintf("Category breakdown for %s:", s.Domain.Title)}
	for _, sl := range slices {
		lines = append(lines, fmt.Sprintf("%s: %d (%.0f%%), mean %.1f, cost %s",
			sl.Category, sl.Count, sl.Percent, sl.MeanScore, formatMoney(sl.Cost)))
	}
	return Answer{Text: strings.Join(lines, "\n"), Payload: slices}
}

func (a *Answerer) help(intent Intent) Answer {
	var b strings.Builder
	if strings.TrimSpace(intent.Raw) != "" && intent.Verb == VerbHelp {
		fmt.Fprintf(&b, "I couldn't match %q to a known question.\n", intent.Raw)
	} else if intent.Verb != VerbHelp {
		b.WriteString("That question needs a domain I have data for.\n")
	}
	b.WriteString("Try queries like:\n")
	b.WriteString("  \"summary of applications\"\n")
	b.WriteString("  \"top 5 projects\"\n")
	b.WriteString("  \"how many contracts should we exit\"\n")
	b.WriteString("  \"cost breakdown by category for apps\"\n")
	return Answer{Text: b.String()}
}

// formatMoney renders a cost with thousands separators, no cents.
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
