// Package analytics computes the canned aggregates behind folio's
// dashboards, reports, and natural-language answers. Everything here is
// a pure O(n) scan over scored results.
package analytics

import (
	"math"
	"sort"

	"folio/internal/domain"
	"folio/internal/scoring"
)

// Summary is the headline view of one scored portfolio domain.
type Summary struct {
	Domain         string             `json:"domain"`
	Count          int                `json:"count"`
	MeanScore      float64            `json:"mean_score"`
	MinScore       float64            `json:"min_score"`
	MaxScore       float64            `json:"max_score"`
	CategoryCounts map[string]int     `json:"category_counts"`
	TotalCost      float64            `json:"total_cost"`
	CostByCategory map[string]float64 `json:"cost_by_category"`
	Flagged        int                `json:"flagged"` // results with missing attributes
}

// CategorySlice is one row of a category breakdown.
type CategorySlice struct {
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
	MeanScore float64 `json:"mean_score"`
	Cost      float64 `json:"cost"`
}

// Summarize computes the Summary for a set of results. Costs are joined
// from records by ID; records without results are ignored. Empty input
// yields a zero-valued summary.
func Summarize(d domain.Domain, results []scoring.Result, records []domain.Record) Summary {
	s := Summary{
		Domain:         d.Name,
		CategoryCounts: make(map[string]int, len(d.Categories)),
		CostByCategory: make(map[string]float64, len(d.Categories)),
	}
	for _, c := range d.Categories {
		s.CategoryCounts[c] = 0
	}
	if len(results) == 0 {
		return s
	}

	costs := costIndex(records)

	sum := 0.0
	s.MinScore = math.Inf(1)
	s.MaxScore = math.Inf(-1)
	for _, r := range results {
		s.Count++
		sum += r.Score
		if r.Score < s.MinScore {
			s.MinScore = r.Score
		}
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		s.CategoryCounts[r.Category]++
		if len(r.Flags) > 0 {
			s.Flagged++
		}
		cost := costs[r.RecordID]
		s.TotalCost += cost
		s.CostByCategory[r.Category] += cost
	}
	s.MeanScore = round2(sum / float64(s.Count))
	return s
}

// Breakdown returns per-category slices in the domain's category order.
func Breakdown(d domain.Domain, results []scoring.Result, records []domain.Record) []CategorySlice {
	costs := costIndex(records)

	byCat := make(map[string]*CategorySlice, len(d.Categories))
	sums := make(map[string]float64, len(d.Categories))
	for _, c := range d.Categories {
		byCat[c] = &CategorySlice{Category: c}
	}
	for _, r := range results {
		slice, ok := byCat[r.Category]
		if !ok {
			// Category from an older profile revision; still report it.
			slice = &CategorySlice{Category: r.Category}
			byCat[r.Category] = slice
		}
		slice.Count++
		sums[r.Category] += r.Score
		slice.Cost += costs[r.RecordID]
	}

	out := make([]CategorySlice, 0, len(byCat))
	seen := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		out = append(out, *byCat[c])
		seen[c] = true
	}
	extra := make([]string, 0)
	for c := range byCat {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, *byCat[c])
	}

	total := len(results)
	for i := range out {
		if out[i].Count > 0 {
			out[i].Percent = round2(float64(out[i].Count) / float64(total) * 100)
			out[i].MeanScore = round2(sums[out[i].Category] / float64(out[i].Count))
		}
	}
	return out
}

// TopN returns the n highest-scoring results (ties broken by name then
// ID). n larger than the input returns everything.
func TopN(results []scoring.Result, n int) []scoring.Result {
	sorted := append([]scoring.Result(nil), results...)
	scoring.SortByScore(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

// BottomN returns the n lowest-scoring results.
func BottomN(results []scoring.Result, n int) []scoring.Result {
	sorted := append([]scoring.Result(nil), results...)
	scoring.SortByScore(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	out := sorted[len(sorted)-n:]
	// Worst first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// AttributeAverages returns the mean normalized value per attribute.
func AttributeAverages(results []scoring.Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		for attr, v := range r.Normalized {
			sums[attr] += v
			counts[attr]++
		}
	}
	out := make(map[string]float64, len(sums))
	for attr, sum := range sums {
		out[attr] = round2(sum / float64(counts[attr]))
	}
	return out
}

// Quadrant names for the 2x2 matrix, clockwise from best.
const (
	QuadrantLeaders    = "leaders"     // high X, high Y
	QuadrantQuestions  = "questions"   // low X, high Y
	QuadrantLaggards   = "laggards"    // low X, low Y
	QuadrantWorkhorses = "workhorses"  // high X, low Y
)

// QuadrantMatrix buckets results into a 2x2 grid on two normalized
// attributes split at the [0,10] midpoint. This is the TIME-style
// quadrant view (e.g. business_value vs technical_health).
func QuadrantMatrix(results []scoring.Result, xAttr, yAttr string) map[string][]string {
	const mid = 5.0
	m := map[string][]string{
		QuadrantLeaders:    {},
		QuadrantQuestions:  {},
		QuadrantLaggards:   {},
		QuadrantWorkhorses: {},
	}
	for _, r := range results {
		x := r.Normalized[xAttr]
		y := r.Normalized[yAttr]
		switch {
		case x >= mid && y >= mid:
			m[QuadrantLeaders] = append(m[QuadrantLeaders], r.RecordID)
		case x < mid && y >= mid:
			m[QuadrantQuestions] = append(m[QuadrantQuestions], r.RecordID)
		case x < mid && y < mid:
			m[QuadrantLaggards] = append(m[QuadrantLaggards], r.RecordID)
		default:
			m[QuadrantWorkhorses] = append(m[QuadrantWorkhorses], r.RecordID)
		}
	}
	return m
}

// Histogram buckets scores into bins 0-10, 10-20, ..., 90-100. A score
// of exactly 100 lands in the last bin.
func Histogram(results []scoring.Result) [10]int {
	var bins [10]int
	for _, r := range results {
		idx := int(r.Score / 10)
		if idx > 9 {
			idx = 9
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx]++
	}
	return bins
}

func costIndex(records []domain.Record) map[string]float64 {
	idx := make(map[string]float64, len(records))
	for _, rec := range records {
		idx[rec.ID] = rec.AnnualCost
	}
	return idx
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
