// Package server exposes folio's dashboard as JSON over HTTP. Handlers
// read immutable per-domain snapshots swapped in by the CLI (on ingest,
// score, or profile hot-reload), so requests never block on the store.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"folio/internal/analytics"
	"folio/internal/domain"
	"folio/internal/logging"
	"folio/internal/query"
)

// Server is the dashboard HTTP server.
type Server struct {
	mu        sync.RWMutex
	registry  *domain.Registry
	snapshots map[string]query.Snapshot
	parser    *query.Parser
	httpSrv   *http.Server
}

// New builds a server for the given registry listening on addr.
func New(reg *domain.Registry, addr string) *Server {
	s := &Server{
		registry:  reg,
		snapshots: make(map[string]query.Snapshot),
		parser:    query.NewParser(reg),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/domains", s.handleDomains)
	mux.HandleFunc("GET /api/{domain}/summary", s.handleSummary)
	mux.HandleFunc("GET /api/{domain}/scores", s.handleScores)
	mux.HandleFunc("GET /api/{domain}/charts", s.handleCharts)
	mux.HandleFunc("POST /api/query", s.handleQuery)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SetSnapshot swaps in the scored state for one domain.
func (s *Server) SetSnapshot(name string, snap query.Snapshot) {
	s.mu.Lock()
	s.snapshots[name] = snap
	s.mu.Unlock()
	logging.Server("snapshot updated for %s (%d results)", name, len(snap.Results))
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe blocks until the server stops. http.ErrServerClosed is
// swallowed so a clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	logging.Server("dashboard listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Server("dashboard shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Server("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) snapshot(name string) (query.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[name]
	return snap, ok
}

// domainSnapshot resolves the {domain} path value to a snapshot or
// writes the appropriate JSON error.
func (s *Server) domainSnapshot(w http.ResponseWriter, r *http.Request) (query.Snapshot, bool) {
	name := r.PathValue("domain")
	d, err := s.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return query.Snapshot{}, false
	}
	snap, ok := s.snapshot(d.Name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("domain %s has no scored data", d.Name))
		return query.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	type domainInfo struct {
		Name       string   `json:"name"`
		Title      string   `json:"title"`
		Categories []string `json:"categories"`
		Scored     bool     `json:"scored"`
	}
	var out []domainInfo
	for _, d := range s.registry.Domains() {
		_, scored := s.snapshot(d.Name)
		out = append(out, domainInfo{Name: d.Name, Title: d.Title, Categories: d.Categories, Scored: scored})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.domainSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(snap.Domain, snap.Results, snap.Records))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.domainSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.TopN(snap.Results, len(snap.Results)))
}

// ChartPayload is one chart-library-ready series.
type ChartPayload struct {
	Kind   string    `json:"kind"` // bar, histogram, pie
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.domainSnapshot(w, r)
	if !ok {
		return
	}

	slices := analytics.Breakdown(snap.Domain, snap.Results, snap.Records)
	categoryBar := ChartPayload{Kind: "bar", Title: "Items by Category"}
	costPie := ChartPayload{Kind: "pie", Title: "Annual Cost by Category"}
	for _, sl := range slices {
		categoryBar.Labels = append(categoryBar.Labels, sl.Category)
		categoryBar.Values = append(categoryBar.Values, float64(sl.Count))
		costPie.Labels = append(costPie.Labels, sl.Category)
		costPie.Values = append(costPie.Values, sl.Cost)
	}

	bins := analytics.Histogram(snap.Results)
	histogram := ChartPayload{Kind: "histogram", Title: "Score Distribution"}
	for i, n := range bins {
		histogram.Labels = append(histogram.Labels, fmt.Sprintf("%d-%d", i*10, i*10+10))
		histogram.Values = append(histogram.Values, float64(n))
	}

	writeJSON(w, http.StatusOK, []ChartPayload{categoryBar, histogram, costPie})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Q string `json:"q"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be JSON with a \"q\" field")
		return
	}

	intent := s.parser.Parse(req.Q)

	s.mu.RLock()
	snapshots := make(map[string]query.Snapshot, len(s.snapshots))
	for k, v := range s.snapshots {
		snapshots[k] = v
	}
	s.mu.RUnlock()

	answer := query.NewAnswerer(s.registry, snapshots).Answer(intent)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intent": map[string]interface{}{
			"verb":     intent.Verb,
			"domain":   intent.Domain,
			"category": intent.Category,
			"n":        intent.N,
		},
		"answer": answer,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Get(logging.CategoryServer).Error("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
