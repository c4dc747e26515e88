package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/query"
	"folio/internal/scoring"
	"folio/internal/server"
	"folio/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and query API",
	Long: `Starts the HTTP server backing the dashboard. Snapshots come from the
latest score run per domain. Domains with a profile file configured are
watched: editing the file re-scores the domain and refreshes its
snapshot without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortfolio()
		if err != nil {
			return err
		}
		defer p.Close()

		snaps, err := loadSnapshots(p)
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv := server.New(registry, addr)
		for name, snap := range snaps {
			srv.SetSnapshot(name, snap)
		}
		logger.Info("serving dashboard",
			zap.String("addr", addr),
			zap.Int("domains", len(snaps)))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watchers, err := startProfileWatchers(ctx, p, srv)
		if err != nil {
			return err
		}
		defer func() {
			for _, w := range watchers {
				w.Stop()
			}
		}()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// startProfileWatchers hot-reloads configured profile files. A valid
// edit re-scores the domain from stored records and swaps the snapshot.
func startProfileWatchers(ctx context.Context, p *store.Portfolio, srv *server.Server) ([]*scoring.Watcher, error) {
	var watchers []*scoring.Watcher
	for _, d := range registry.Domains() {
		path := cfg.Profiles[d.Name]
		if path == "" {
			continue
		}
		d := d
		w, err := scoring.NewWatcher(path, d, func(eng *scoring.Engine) {
			records, err := p.LoadRecords(d.Name)
			if err != nil {
				logger.Error("reload re-score failed",
					zap.String("domain", d.Name), zap.Error(err))
				return
			}
			results := eng.ScoreAll(records)
			scoring.SortByScore(results)
			srv.SetSnapshot(d.Name, query.Snapshot{
				Domain:  d,
				Results: results,
				Records: records,
			})
			logger.Info("snapshot refreshed after profile edit",
				zap.String("domain", d.Name),
				zap.Int("records", len(results)))
		})
		if err != nil {
			return watchers, fmt.Errorf("watch %s profile: %w", d.Name, err)
		}
		if err := w.Start(ctx); err != nil {
			return watchers, fmt.Errorf("watch %s profile: %w", d.Name, err)
		}
		watchers = append(watchers, w)
	}
	return watchers, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
