package main

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"folio/internal/query"
	"folio/internal/store"
)

// loadSnapshots assembles the latest score run plus records for every
// domain that has one. Domains without runs are simply absent.
func loadSnapshots(p *store.Portfolio) (map[string]query.Snapshot, error) {
	domains := registry.Domains()
	snaps := make([]*query.Snapshot, len(domains))

	var g errgroup.Group
	for i, d := range domains {
		i, d := i, d
		g.Go(func() error {
			run, err := p.LatestRun(d.Name)
			if errors.Is(err, store.ErrNoRuns) {
				return nil
			}
			if err != nil {
				return err
			}
			results, err := p.RunResults(run.ID)
			if err != nil {
				return err
			}
			records, err := p.LoadRecords(d.Name)
			if err != nil {
				return err
			}
			snaps[i] = &query.Snapshot{Domain: d, Results: results, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]query.Snapshot)
	for _, s := range snaps {
		if s != nil {
			out[s.Domain.Name] = *s
		}
	}
	return out, nil
}
