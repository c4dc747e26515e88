package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
	"folio/internal/scoring"
)

func openTestStore(t *testing.T) *Portfolio {
	t.Helper()
	p, err := Open(":memory:")
	require.NoError(t, err, "failed to open in-memory store")
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSaveAndLoadRecords(t *testing.T) {
	p := openTestStore(t)

	records := []domain.Record{
		{
			ID: "app-1", Name: "Billing", Domain: domain.Applications,
			Attributes: map[string]float64{"business_value": 8, "risk_exposure": 2},
			Metadata:   map[string]string{"owner": "finance"},
			AnnualCost: 120000,
		},
		{
			ID: "app-2", Name: "Legacy CRM", Domain: domain.Applications,
			Attributes: map[string]float64{"business_value": 3},
			Metadata:   map[string]string{},
		},
	}
	require.NoError(t, p.SaveRecords(records))

	loaded, err := p.LoadRecords(domain.Applications)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Billing", loaded[0].Name)
	assert.Equal(t, 8.0, loaded[0].Attributes["business_value"])
	assert.Equal(t, "finance", loaded[0].Metadata["owner"])
	assert.Equal(t, 120000.0, loaded[0].AnnualCost)

	// Upsert replaces the existing row.
	records[0].Name = "Billing v2"
	records[0].AnnualCost = 90000
	require.NoError(t, p.SaveRecords(records[:1]))

	loaded, err = p.LoadRecords(domain.Applications)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Billing v2", loaded[0].Name)
	assert.Equal(t, 90000.0, loaded[0].AnnualCost)
}

func TestLoadRecordsOtherDomainIsolated(t *testing.T) {
	p := openTestStore(t)

	require.NoError(t, p.SaveRecords([]domain.Record{
		{ID: "ct-1", Name: "MSA", Domain: domain.Contracts,
			Attributes: map[string]float64{}, Metadata: map[string]string{}},
	}))

	apps, err := p.LoadRecords(domain.Applications)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSaveRunAndResults(t *testing.T) {
	p := openTestStore(t)

	results := []scoring.Result{
		{RecordID: "app-1", Name: "Billing", Normalized: map[string]float64{"business_value": 8},
			Composite: 7.2, Score: 72, Category: domain.CategoryTolerate},
		{RecordID: "app-2", Name: "Legacy CRM", Normalized: map[string]float64{"business_value": 3},
			Composite: 1.5, Score: 15, Category: domain.CategoryEliminate,
			Flags: []string{"missing:technical_health"}},
	}

	run, err := p.SaveRun(domain.Applications, "applications-abc", results)
	require.NoError(t, err)
	assert.Positive(t, run.ID)
	assert.NotEmpty(t, run.UID)

	latest, err := p.LatestRun(domain.Applications)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, run.UID, latest.UID)
	assert.Equal(t, "applications-abc", latest.Profile)
	assert.False(t, latest.CreatedAt.IsZero())

	got, err := p.RunResults(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by descending score.
	assert.Equal(t, "app-1", got[0].RecordID)
	assert.Equal(t, []string{"missing:technical_health"}, got[1].Flags)

	// A second run supersedes the first and gets its own identifier.
	run2, err := p.SaveRun(domain.Applications, "applications-def", results[:1])
	require.NoError(t, err)
	assert.NotEqual(t, run.UID, run2.UID)
	latest, err = p.LatestRun(domain.Applications)
	require.NoError(t, err)
	assert.Equal(t, run2.ID, latest.ID)
}

func TestLatestRunNoRuns(t *testing.T) {
	p := openTestStore(t)

	_, err := p.LatestRun(domain.Projects)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRuns), "expected ErrNoRuns, got %v", err)
}
