package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"folio/internal/domain"
	"folio/internal/scoring"
)

func testResults() ([]scoring.Result, []domain.Record) {
	results := []scoring.Result{
		{RecordID: "a", Name: "Alpha", Score: 90, Category: domain.CategoryInvest,
			Normalized: map[string]float64{"business_value": 9, "technical_health": 8}},
		{RecordID: "b", Name: "Beta", Score: 60, Category: domain.CategoryTolerate,
			Normalized: map[string]float64{"business_value": 7, "technical_health": 3}},
		{RecordID: "c", Name: "Gamma", Score: 20, Category: domain.CategoryEliminate,
			Normalized: map[string]float64{"business_value": 2, "technical_health": 1},
			Flags:      []string{"missing:user_adoption"}},
	}
	records := []domain.Record{
		{ID: "a", AnnualCost: 100},
		{ID: "b", AnnualCost: 50},
		{ID: "c", AnnualCost: 25},
	}
	return results, records
}

func appsDomain(t *testing.T) domain.Domain {
	t.Helper()
	d, err := domain.Builtin().Get(domain.Applications)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return d
}

func TestSummarize(t *testing.T) {
	d := appsDomain(t)
	results, records := testResults()

	s := Summarize(d, results, records)
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if s.MeanScore != 56.67 {
		t.Errorf("mean = %v, want 56.67", s.MeanScore)
	}
	if s.MinScore != 20 || s.MaxScore != 90 {
		t.Errorf("min/max = %v/%v, want 20/90", s.MinScore, s.MaxScore)
	}
	if s.TotalCost != 175 {
		t.Errorf("total cost = %v, want 175", s.TotalCost)
	}
	if s.CategoryCounts[domain.CategoryInvest] != 1 {
		t.Errorf("invest count = %d, want 1", s.CategoryCounts[domain.CategoryInvest])
	}
	if s.CategoryCounts[domain.CategoryMigrate] != 0 {
		t.Error("empty categories should still be present with count 0")
	}
	if s.CostByCategory[domain.CategoryEliminate] != 25 {
		t.Errorf("eliminate cost = %v, want 25", s.CostByCategory[domain.CategoryEliminate])
	}
	if s.Flagged != 1 {
		t.Errorf("flagged = %d, want 1", s.Flagged)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	d := appsDomain(t)
	s := Summarize(d, nil, nil)
	if s.Count != 0 || s.MeanScore != 0 || s.MinScore != 0 || s.MaxScore != 0 {
		t.Errorf("empty summary not zero-valued: %+v", s)
	}
	if len(s.CategoryCounts) != 4 {
		t.Errorf("expected all 4 categories present, got %v", s.CategoryCounts)
	}
}

func TestBreakdownOrderAndPercent(t *testing.T) {
	d := appsDomain(t)
	results, records := testResults()

	slices := Breakdown(d, results, records)
	if len(slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(slices))
	}

	wantOrder := []string{
		domain.CategoryInvest, domain.CategoryTolerate,
		domain.CategoryMigrate, domain.CategoryEliminate,
	}
	for i, cat := range wantOrder {
		if slices[i].Category != cat {
			t.Errorf("slice %d: got %s, want %s", i, slices[i].Category, cat)
		}
	}

	if slices[0].Percent != 33.33 {
		t.Errorf("invest percent = %v, want 33.33", slices[0].Percent)
	}
	if slices[2].Count != 0 || slices[2].Percent != 0 {
		t.Errorf("empty migrate slice should be zero: %+v", slices[2])
	}
	if slices[3].Cost != 25 {
		t.Errorf("eliminate cost = %v, want 25", slices[3].Cost)
	}
}

func TestTopBottomN(t *testing.T) {
	results, _ := testResults()

	top := TopN(results, 2)
	if len(top) != 2 || top[0].RecordID != "a" || top[1].RecordID != "b" {
		t.Errorf("TopN wrong: %v", ids(top))
	}

	bottom := BottomN(results, 2)
	if len(bottom) != 2 || bottom[0].RecordID != "c" || bottom[1].RecordID != "b" {
		t.Errorf("BottomN wrong: %v", ids(bottom))
	}

	// Oversized n returns everything, and the input is not mutated.
	all := TopN(results, 99)
	if len(all) != 3 {
		t.Errorf("TopN(99) len = %d, want 3", len(all))
	}
	if results[0].RecordID != "a" || results[2].RecordID != "c" {
		t.Error("TopN mutated its input")
	}
}

func TestQuadrantMatrix(t *testing.T) {
	results, _ := testResults()
	m := QuadrantMatrix(results, "business_value", "technical_health")

	want := map[string][]string{
		QuadrantLeaders:    {"a"},
		QuadrantQuestions:  {},
		QuadrantLaggards:   {"c"},
		QuadrantWorkhorses: {"b"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("quadrants mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogram(t *testing.T) {
	results := []scoring.Result{
		{Score: 0}, {Score: 9.99}, {Score: 10}, {Score: 55}, {Score: 100},
	}
	bins := Histogram(results)
	if bins[0] != 2 {
		t.Errorf("bin 0 = %d, want 2", bins[0])
	}
	if bins[1] != 1 {
		t.Errorf("bin 1 = %d, want 1", bins[1])
	}
	if bins[5] != 1 {
		t.Errorf("bin 5 = %d, want 1", bins[5])
	}
	if bins[9] != 1 {
		t.Errorf("score 100 should land in bin 9, got %d", bins[9])
	}
}

func TestAttributeAverages(t *testing.T) {
	results, _ := testResults()
	avgs := AttributeAverages(results)
	if avgs["business_value"] != 6.0 {
		t.Errorf("business_value avg = %v, want 6.0", avgs["business_value"])
	}
	if avgs["technical_health"] != 4.0 {
		t.Errorf("technical_health avg = %v, want 4.0", avgs["technical_health"])
	}
}

func ids(results []scoring.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.RecordID
	}
	return out
}
