package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"folio/internal/domain"
	"folio/internal/scoring"
)

func fixture(t *testing.T) (domain.Domain, []scoring.Result, []domain.Record) {
	t.Helper()
	d, err := domain.Builtin().Get(domain.Applications)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	results := []scoring.Result{
		{RecordID: "a", Name: "Billing", Score: 85, Category: domain.CategoryInvest},
		{RecordID: "b", Name: "Intranet", Score: 48, Category: domain.CategoryMigrate,
			Flags: []string{"missing:user_adoption"}},
		{RecordID: "c", Name: "Fax Gateway", Score: 10, Category: domain.CategoryEliminate},
	}
	records := []domain.Record{
		{ID: "a", AnnualCost: 100000},
		{ID: "b", AnnualCost: 40000},
		{ID: "c", AnnualCost: 15000},
	}
	return d, results, records
}

func TestRender(t *testing.T) {
	d, results, records := fixture(t)

	out, err := Render(d, results, records, Options{
		TopN:        2,
		GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"# Application Rationalization Report",
		"Generated: 2026-03-01 09:00 UTC",
		"Items scored: **3**",
		"Total annual cost: **$155,000**",
		"Items with incomplete data: **1**",
		"| Invest | 1 |",
		"1. **Billing** — 85.0 (Invest)",
		"1. **Fax Gateway** — 10.0 (Eliminate)",
		"## Invest (1)",
		"## Eliminate (1)",
		"missing:user_adoption",
		"Schedule decommissioning",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}

	// Empty categories get no section.
	if strings.Contains(out, "## Tolerate") {
		t.Error("empty category should be omitted from sections")
	}
}

func TestRenderEmpty(t *testing.T) {
	d, _, _ := fixture(t)
	out, err := Render(d, nil, nil, Options{})
	if err != nil {
		t.Fatalf("Render of empty domain failed: %v", err)
	}
	if !strings.Contains(out, "Items scored: **0**") {
		t.Errorf("empty report wrong:\n%s", out)
	}
}

func TestWriteFile(t *testing.T) {
	d, results, records := fixture(t)
	path := filepath.Join(t.TempDir(), "apps.md")

	if err := WriteFile(path, d, results, records, Options{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "# Application Rationalization Report") {
		t.Error("written report missing title")
	}
}
