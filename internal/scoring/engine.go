package scoring

import (
	"fmt"
	"math"
	"sort"

	"folio/internal/domain"
	"folio/internal/logging"
)

// Result is the scored outcome for one record.
type Result struct {
	RecordID   string
	Name       string
	Normalized map[string]float64 // attribute -> [0,10]
	Composite  float64            // [0,10]
	Score      float64            // [0,100], 2 decimals
	Category   string
	Flags      []string // e.g. "missing:npv_index"
}

// Engine applies a validated profile to records of one domain.
type Engine struct {
	domain  domain.Domain
	profile Profile
	bounds  map[string]Bounds // effective bounds per weighted attribute
}

// NewEngine builds an engine from a profile, validating it against the domain.
func NewEngine(d domain.Domain, p Profile) (*Engine, error) {
	if err := p.Validate(d); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	bounds := make(map[string]Bounds, len(p.Weights))
	for _, w := range p.Weights {
		spec, _ := d.Attribute(w.Attribute)
		b := Bounds{Min: spec.Min, Max: spec.Max}
		if override, ok := p.Bounds[w.Attribute]; ok {
			b = override
		}
		bounds[w.Attribute] = b
	}
	return &Engine{domain: d, profile: p, bounds: bounds}, nil
}

// Domain returns the engine's domain.
func (e *Engine) Domain() domain.Domain { return e.domain }

// Profile returns the engine's profile.
func (e *Engine) Profile() Profile { return e.profile }

// normalize maps a raw value to [0,10] using linear interpolation over
// the bounds, clamped. LowerIsBetter attributes are inverted so 10 is
// always the favorable end. Degenerate bounds normalize to the midpoint.
func normalize(v float64, b Bounds, dir domain.Direction) float64 {
	if b.Max == b.Min {
		return 5.0
	}
	n := (v - b.Min) / (b.Max - b.Min) * 10
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	if dir == domain.LowerIsBetter {
		n = 10 - n
	}
	return n
}

// Score computes the composite, 0-100 score, and category for a record.
// A missing attribute contributes 0 to the composite and is flagged; the
// record is still categorized.
func (e *Engine) Score(rec domain.Record) Result {
	res := Result{
		RecordID:   rec.ID,
		Name:       rec.Name,
		Normalized: make(map[string]float64, len(e.profile.Weights)),
	}

	composite := 0.0
	for _, w := range e.profile.Weights {
		raw, ok := rec.Attributes[w.Attribute]
		if !ok || math.IsNaN(raw) {
			res.Flags = append(res.Flags, "missing:"+w.Attribute)
			res.Normalized[w.Attribute] = 0
			continue
		}
		spec, _ := e.domain.Attribute(w.Attribute)
		n := normalize(raw, e.bounds[w.Attribute], spec.Direction)
		res.Normalized[w.Attribute] = n
		composite += w.Weight * n
	}

	res.Composite = composite
	res.Score = math.Round(composite*10*100) / 100
	res.Category = e.Categorize(res.Score)
	return res
}

// Categorize maps a 0-100 score to a category via the profile's bands.
// Out-of-range scores are clamped before lookup.
func (e *Engine) Categorize(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, b := range e.profile.Bands {
		if score >= b.Min {
			return b.Category
		}
	}
	// Unreachable for a validated profile (last band min is 0).
	return e.profile.Bands[len(e.profile.Bands)-1].Category
}

// ScoreAll scores every record in input order.
func (e *Engine) ScoreAll(records []domain.Record) []Result {
	timer := logging.StartTimer(logging.CategoryScoring, fmt.Sprintf("ScoreAll(%s, n=%d)", e.domain.Name, len(records)))
	defer timer.Stop()

	out := make([]Result, 0, len(records))
	for _, rec := range records {
		out = append(out, e.Score(rec))
	}
	logging.Scoring("scored %d %s records with profile %s", len(out), e.domain.Name, e.profile.Fingerprint())
	return out
}

// SortByScore orders results by descending score, ties broken by name
// then record ID so output is deterministic.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].RecordID < results[j].RecordID
	})
}
