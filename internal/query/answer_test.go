package query

import (
	"strings"
	"testing"

	"folio/internal/domain"
	"folio/internal/scoring"
)

func testAnswerer(t *testing.T) *Answerer {
	t.Helper()
	reg := domain.Builtin()
	apps, err := reg.Get(domain.Applications)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	snapshots := map[string]Snapshot{
		domain.Applications: {
			Domain: apps,
			Results: []scoring.Result{
				{RecordID: "a", Name: "Billing", Score: 85, Category: domain.CategoryInvest},
				{RecordID: "b", Name: "Intranet", Score: 45, Category: domain.CategoryMigrate},
				{RecordID: "c", Name: "Fax Gateway", Score: 12, Category: domain.CategoryEliminate},
			},
			Records: []domain.Record{
				{ID: "a", AnnualCost: 200000},
				{ID: "b", AnnualCost: 50000},
				{ID: "c", AnnualCost: 30000},
			},
		},
	}
	return NewAnswerer(reg, snapshots)
}

func TestAnswerSummary(t *testing.T) {
	a := testAnswerer(t)
	ans := a.Answer(Intent{Verb: VerbSummary, Domain: domain.Applications})

	if !strings.Contains(ans.Text, "3 items") {
		t.Errorf("summary text missing count: %q", ans.Text)
	}
	if !strings.Contains(ans.Text, "$280,000") {
		t.Errorf("summary text missing formatted cost: %q", ans.Text)
	}
	if ans.Payload == nil {
		t.Error("summary should carry a structured payload")
	}
}

func TestAnswerTopAndBottom(t *testing.T) {
	a := testAnswerer(t)

	top := a.Answer(Intent{Verb: VerbTop, Domain: domain.Applications, N: 2})
	if !strings.Contains(top.Text, "1. Billing") {
		t.Errorf("top answer wrong:\n%s", top.Text)
	}
	if strings.Contains(top.Text, "Fax Gateway") {
		t.Errorf("top 2 should not include the worst item:\n%s", top.Text)
	}

	bottom := a.Answer(Intent{Verb: VerbBottom, Domain: domain.Applications, N: 1})
	if !strings.Contains(bottom.Text, "1. Fax Gateway") {
		t.Errorf("bottom answer wrong:\n%s", bottom.Text)
	}
}

func TestAnswerCountByCategory(t *testing.T) {
	a := testAnswerer(t)

	// Domain inferred from the category.
	ans := a.Answer(Intent{Verb: VerbCount, Category: domain.CategoryEliminate})
	if !strings.Contains(ans.Text, "1 of 3") {
		t.Errorf("count answer wrong: %q", ans.Text)
	}
}

func TestAnswerCost(t *testing.T) {
	a := testAnswerer(t)

	ans := a.Answer(Intent{Verb: VerbCost, Domain: domain.Applications, Category: domain.CategoryInvest})
	if !strings.Contains(ans.Text, "$200,000") {
		t.Errorf("cost answer wrong: %q", ans.Text)
	}
}

func TestAnswerBreakdown(t *testing.T) {
	a := testAnswerer(t)

	ans := a.Answer(Intent{Verb: VerbBreakdown, Domain: domain.Applications})
	for _, cat := range []string{"Invest", "Tolerate", "Migrate", "Eliminate"} {
		if !strings.Contains(ans.Text, cat) {
			t.Errorf("breakdown missing category %s:\n%s", cat, ans.Text)
		}
	}
}

func TestAnswerFallsBackToHelp(t *testing.T) {
	a := testAnswerer(t)

	// Unscored domain -> help.
	ans := a.Answer(Intent{Verb: VerbTop, Domain: domain.Projects, N: 3})
	if !strings.Contains(ans.Text, "Try queries like") {
		t.Errorf("expected help fallback, got: %q", ans.Text)
	}

	// Unrecognized text echoes the query.
	ans = a.Answer(Intent{Verb: VerbHelp, Raw: "make me coffee"})
	if !strings.Contains(ans.Text, "make me coffee") {
		t.Errorf("help should echo the raw query: %q", ans.Text)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
		{-2500, "-$2,500"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.v); got != tt.want {
			t.Errorf("formatMoney(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}
