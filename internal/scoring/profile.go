// Package scoring implements folio's weighted-sum scoring engine: it
// converts multi-attribute records into normalized composite scores and
// bucketed recommendation categories, driven by per-domain profiles.
package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"folio/internal/domain"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 1e-6

// Weight assigns a fraction of the composite score to one attribute.
type Weight struct {
	Attribute string  `yaml:"attribute"`
	Weight    float64 `yaml:"weight"`
}

// Bounds overrides the normalization range for one attribute.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Band maps a score floor to a recommendation category. Bands are
// ordered by descending Min; the first band whose Min <= score wins.
type Band struct {
	Category string  `yaml:"category"`
	Min      float64 `yaml:"min"`
}

// Profile is the full scoring configuration for one domain.
type Profile struct {
	Domain  string            `yaml:"domain"`
	Weights []Weight          `yaml:"weights"`
	Bands   []Band            `yaml:"bands"`
	Bounds  map[string]Bounds `yaml:"bounds,omitempty"`
}

// ParseProfile decodes and validates a YAML profile against the domain.
func ParseProfile(data []byte, d domain.Domain) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.Domain == "" {
		p.Domain = d.Name
	}
	if err := p.Validate(d); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LoadProfile reads and validates a YAML profile file.
func LoadProfile(path string, d domain.Domain) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return ParseProfile(data, d)
}

// Validate checks the profile against the domain schema.
func (p Profile) Validate(d domain.Domain) error {
	if p.Domain != d.Name {
		return fmt.Errorf("profile domain %q does not match %q", p.Domain, d.Name)
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("profile for %s has no weights", d.Name)
	}

	sum := 0.0
	seen := make(map[string]bool, len(p.Weights))
	for _, w := range p.Weights {
		if _, ok := d.Attribute(w.Attribute); !ok {
			return fmt.Errorf("weight references unknown attribute %q", w.Attribute)
		}
		if seen[w.Attribute] {
			return fmt.Errorf("duplicate weight for attribute %q", w.Attribute)
		}
		seen[w.Attribute] = true
		if w.Weight < 0 || w.Weight > 1 {
			return fmt.Errorf("weight for %q out of range [0,1]: %v", w.Attribute, w.Weight)
		}
		sum += w.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}

	if len(p.Bands) == 0 {
		return fmt.Errorf("profile for %s has no bands", d.Name)
	}
	prev := math.Inf(1)
	for i, b := range p.Bands {
		if !d.HasCategory(b.Category) {
			return fmt.Errorf("band category %q is not valid for domain %s", b.Category, d.Name)
		}
		if b.Min >= prev {
			return fmt.Errorf("band mins must be strictly descending (band %d: %v)", i, b.Min)
		}
		prev = b.Min
	}
	if last := p.Bands[len(p.Bands)-1]; last.Min != 0 {
		return fmt.Errorf("last band must have min 0, got %v", last.Min)
	}

	for key := range p.Bounds {
		if _, ok := d.Attribute(key); !ok {
			return fmt.Errorf("bounds reference unknown attribute %q", key)
		}
	}
	return nil
}

// Fingerprint returns a stable identifier for the profile configuration,
// used to tag persisted score runs.
func (p Profile) Fingerprint() string {
	out, err := yaml.Marshal(p)
	if err != nil {
		return p.Domain
	}
	// FNV-1a over the canonical YAML form.
	var h uint64 = 14695981039346656037
	for _, b := range out {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return fmt.Sprintf("%s-%016x", p.Domain, h)
}

// DefaultProfile returns the shipped profile for a built-in domain.
func DefaultProfile(d domain.Domain) Profile {
	switch d.Name {
	case domain.Applications:
		return Profile{
			Domain: d.Name,
			Weights: []Weight{
				{Attribute: "business_value", Weight: 0.30},
				{Attribute: "technical_health", Weight: 0.25},
				{Attribute: "operational_cost_ratio", Weight: 0.15},
				{Attribute: "risk_exposure", Weight: 0.15},
				{Attribute: "user_adoption", Weight: 0.15},
			},
			Bands: []Band{
				{Category: domain.CategoryInvest, Min: 75},
				{Category: domain.CategoryTolerate, Min: 55},
				{Category: domain.CategoryMigrate, Min: 35},
				{Category: domain.CategoryEliminate, Min: 0},
			},
		}
	case domain.Projects:
		return Profile{
			Domain: d.Name,
			Weights: []Weight{
				{Attribute: "strategic_alignment", Weight: 0.25},
				{Attribute: "npv_index", Weight: 0.25},
				{Attribute: "schedule_confidence", Weight: 0.20},
				{Attribute: "execution_risk", Weight: 0.15},
				{Attribute: "resource_availability", Weight: 0.15},
			},
			Bands: []Band{
				{Category: domain.CategoryAccelerate, Min: 75},
				{Category: domain.CategoryContinue, Min: 55},
				{Category: domain.CategoryReassess, Min: 35},
				{Category: domain.CategoryHold, Min: 0},
			},
		}
	case domain.Contracts:
		return Profile{
			Domain: d.Name,
			Weights: []Weight{
				{Attribute: "vendor_performance", Weight: 0.25},
				{Attribute: "cost_competitiveness", Weight: 0.25},
				{Attribute: "compliance_posture", Weight: 0.20},
				{Attribute: "dependency_risk", Weight: 0.15},
				{Attribute: "utilization", Weight: 0.15},
			},
			Bands: []Band{
				{Category: domain.CategoryRenew, Min: 75},
				{Category: domain.CategoryMonitor, Min: 55},
				{Category: domain.CategoryRenegotiate, Min: 35},
				{Category: domain.CategoryExit, Min: 0},
			},
		}
	}
	return Profile{Domain: d.Name}
}
