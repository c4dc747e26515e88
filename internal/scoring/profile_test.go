package scoring

import (
	"strings"
	"testing"

	"folio/internal/domain"
)

func TestDefaultProfilesValidate(t *testing.T) {
	for _, d := range domain.Builtin().Domains() {
		p := DefaultProfile(d)
		if err := p.Validate(d); err != nil {
			t.Errorf("default profile for %s invalid: %v", d.Name, err)
		}
	}
}

func TestParseProfileYAML(t *testing.T) {
	d, err := domain.Builtin().Get(domain.Contracts)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	yamlDoc := `
domain: contracts
weights:
  - attribute: vendor_performance
    weight: 0.5
  - attribute: utilization
    weight: 0.5
bands:
  - category: Renew
    min: 60
  - category: Exit
    min: 0
bounds:
  utilization:
    min: 0
    max: 50
`
	p, err := ParseProfile([]byte(yamlDoc), d)
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}
	if len(p.Weights) != 2 {
		t.Errorf("expected 2 weights, got %d", len(p.Weights))
	}
	if b, ok := p.Bounds["utilization"]; !ok || b.Max != 50 {
		t.Errorf("bounds override not parsed: %+v", p.Bounds)
	}

	eng, err := NewEngine(d, p)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	// utilization 25 of [0,50] -> 5.0; vendor_performance 10 -> 10.0
	res := eng.Score(domain.Record{
		ID: "ct-1", Name: "MSA",
		Attributes: map[string]float64{"vendor_performance": 10, "utilization": 25},
	})
	if res.Score != 75.0 {
		t.Errorf("expected 75.0 with bounds override, got %v", res.Score)
	}
}

func TestProfileValidationErrors(t *testing.T) {
	d, err := domain.Builtin().Get(domain.Applications)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	base := DefaultProfile(d)

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{
			"weights off by too much",
			func(p *Profile) { p.Weights[0].Weight += 0.05 },
			"sum to 1.0",
		},
		{
			"unknown attribute",
			func(p *Profile) { p.Weights[0].Attribute = "vibes" },
			"unknown attribute",
		},
		{
			"duplicate attribute",
			func(p *Profile) { p.Weights[1].Attribute = p.Weights[0].Attribute },
			"duplicate weight",
		},
		{
			"negative weight",
			func(p *Profile) {
				p.Weights[0].Weight = -0.1
				p.Weights[1].Weight += 0.4
			},
			"out of range",
		},
		{
			"bands not descending",
			func(p *Profile) { p.Bands[1].Min = 90 },
			"strictly descending",
		},
		{
			"last band not zero",
			func(p *Profile) { p.Bands[len(p.Bands)-1].Min = 5 },
			"last band",
		},
		{
			"foreign category",
			func(p *Profile) { p.Bands[0].Category = domain.CategoryRenew },
			"not valid for domain",
		},
		{
			"no weights",
			func(p *Profile) { p.Weights = nil },
			"no weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Weights = append([]Weight(nil), base.Weights...)
			p.Bands = append([]Band(nil), base.Bands...)
			tt.mutate(&p)

			err := p.Validate(d)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFingerprintStable(t *testing.T) {
	d, _ := domain.Builtin().Get(domain.Projects)
	p := DefaultProfile(d)

	if p.Fingerprint() != p.Fingerprint() {
		t.Error("fingerprint not stable across calls")
	}

	// npv_index (0.25) and schedule_confidence (0.20) differ, so the
	// swapped profile marshals to different bytes.
	q := p
	q.Weights = append([]Weight(nil), p.Weights...)
	q.Weights[1].Weight, q.Weights[2].Weight = q.Weights[2].Weight, q.Weights[1].Weight
	if p.Fingerprint() == q.Fingerprint() {
		t.Error("different profiles share a fingerprint")
	}
	if !strings.HasPrefix(p.Fingerprint(), "projects-") {
		t.Errorf("fingerprint missing domain prefix: %s", p.Fingerprint())
	}
}
