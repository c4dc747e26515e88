package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"folio/internal/dataset"
	"folio/internal/domain"
	"folio/internal/scoring"
	"folio/internal/store"
)

func TestLoadSnapshots(t *testing.T) {
	p, err := store.Open(":memory:")
	require.NoError(t, err)
	defer p.Close()

	d, err := registry.Get(domain.Applications)
	require.NoError(t, err)
	records := dataset.Generate(d, 5, 11)
	require.NoError(t, p.SaveRecords(records))

	eng, err := scoring.NewEngine(d, scoring.DefaultProfile(d))
	require.NoError(t, err)
	results := eng.ScoreAll(records)
	scoring.SortByScore(results)
	_, err = p.SaveRun(d.Name, eng.Profile().Fingerprint(), results)
	require.NoError(t, err)

	snaps, err := loadSnapshots(p)
	require.NoError(t, err)
	require.Len(t, snaps, 1, "only scored domains should appear")

	snap, ok := snaps[d.Name]
	require.True(t, ok, "snapshot must be keyed by domain name")
	require.Equal(t, d.Name, snap.Domain.Name)
	require.Equal(t, d.Title, snap.Domain.Title, "snapshot carries the full domain schema")
	require.NotEmpty(t, snap.Domain.Categories)
	require.Len(t, snap.Results, 5)
	require.Len(t, snap.Records, 5)
}
