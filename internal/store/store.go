// Package store persists portfolio records and score runs in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"folio/internal/domain"
	"folio/internal/logging"
	"folio/internal/scoring"
)

// Portfolio is the SQLite-backed store for records and score runs.
// A single connection with WAL keeps concurrent CLI/server access safe.
type Portfolio struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Run identifies one persisted scoring run. ID is the local rowid;
// UID is the stable identifier safe to expose outside the database.
type Run struct {
	ID        int64
	UID       string
	Domain    string
	Profile   string // profile fingerprint
	CreatedAt time.Time
}

// Open initializes the SQLite database at the given path, creating the
// schema if needed. Use ":memory:" for tests.
func Open(path string) (*Portfolio, error) {
	timer := logging.StartTimer(logging.CategoryStore, "store.Open")
	defer timer.Stop()

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("failed to set synchronous=NORMAL: %v", err)
	}

	p := &Portfolio{db: db, dbPath: path}
	if err := p.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("portfolio store ready at %s", path)
	return p, nil
}

// initialize creates the required tables.
func (p *Portfolio) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		domain      TEXT NOT NULL,
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		attributes  TEXT NOT NULL,
		metadata    TEXT NOT NULL,
		annual_cost REAL NOT NULL DEFAULT 0,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (domain, id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_domain ON records(domain);

	CREATE TABLE IF NOT EXISTS score_runs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		uid        TEXT NOT NULL UNIQUE,
		domain     TEXT NOT NULL,
		profile    TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_domain ON score_runs(domain, id);

	CREATE TABLE IF NOT EXISTS scores (
		run_id     INTEGER NOT NULL REFERENCES score_runs(id),
		record_id  TEXT NOT NULL,
		name       TEXT NOT NULL,
		normalized TEXT NOT NULL,
		composite  REAL NOT NULL,
		score      REAL NOT NULL,
		category   TEXT NOT NULL,
		flags      TEXT NOT NULL,
		PRIMARY KEY (run_id, record_id)
	);
	CREATE INDEX IF NOT EXISTS idx_scores_run ON scores(run_id);
	`
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SaveRecords upserts records; re-saving a record replaces it.
func (p *Portfolio) SaveRecords(records []domain.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO records (domain, id, name, attributes, metadata, annual_cost, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(domain, id) DO UPDATE SET
			name = excluded.name,
			attributes = excluded.attributes,
			metadata = excluded.metadata,
			annual_cost = excluded.annual_cost,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return fmt.Errorf("marshal attributes for %s: %w", rec.ID, err)
		}
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", rec.ID, err)
		}
		if _, err := stmt.Exec(rec.Domain, rec.ID, rec.Name, string(attrs), string(meta), rec.AnnualCost); err != nil {
			return fmt.Errorf("save record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logging.Store("saved %d records", len(records))
	return nil
}

// LoadRecords returns all records for a domain, ordered by id.
func (p *Portfolio) LoadRecords(domainName string) ([]domain.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rows, err := p.db.Query(`
		SELECT id, name, attributes, metadata, annual_cost
		FROM records WHERE domain = ? ORDER BY id`, domainName)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec := domain.Record{Domain: domainName}
		var attrs, meta string
		if err := rows.Scan(&rec.ID, &rec.Name, &attrs, &meta, &rec.AnnualCost); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveRun persists a scoring run and its results, returning the run.
func (p *Portfolio) SaveRun(domainName, profileFingerprint string, results []scoring.Result) (Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx, err := p.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	uid := uuid.NewString()
	res, err := tx.Exec(`INSERT INTO score_runs (uid, domain, profile) VALUES (?, ?, ?)`,
		uid, domainName, profileFingerprint)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scores (run_id, record_id, name, normalized, composite, score, category, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		norm, err := json.Marshal(r.Normalized)
		if err != nil {
			return Run{}, fmt.Errorf("marshal normalized for %s: %w", r.RecordID, err)
		}
		flags, err := json.Marshal(r.Flags)
		if err != nil {
			return Run{}, fmt.Errorf("marshal flags for %s: %w", r.RecordID, err)
		}
		if _, err := stmt.Exec(runID, r.RecordID, r.Name, string(norm), r.Composite, r.Score, r.Category, string(flags)); err != nil {
			return Run{}, fmt.Errorf("save score for %s: %w", r.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}

	logging.Store("saved run %d (%s, %d results)", runID, domainName, len(results))
	return Run{ID: runID, UID: uid, Domain: domainName, Profile: profileFingerprint, CreatedAt: time.Now()}, nil
}

// ErrNoRuns is returned by LatestRun when a domain has never been scored.
var ErrNoRuns = fmt.Errorf("no score runs recorded")

// LatestRun returns the most recent run for a domain.
func (p *Portfolio) LatestRun(domainName string) (Run, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var run Run
	err := p.db.QueryRow(`
		SELECT id, uid, domain, profile, created_at
		FROM score_runs WHERE domain = ? ORDER BY id DESC LIMIT 1`, domainName).
		Scan(&run.ID, &run.UID, &run.Domain, &run.Profile, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("%w for domain %s", ErrNoRuns, domainName)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query latest run: %w", err)
	}
	return run, nil
}

// RunResults returns the results of a run ordered by descending score.
func (p *Portfolio) RunResults(runID int64) ([]scoring.Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rows, err := p.db.Query(`
		SELECT record_id, name, normalized, composite, score, category, flags
		FROM scores WHERE run_id = ? ORDER BY score DESC, name ASC, record_id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []scoring.Result
	for rows.Next() {
		var r scoring.Result
		var norm, flags string
		if err := rows.Scan(&r.RecordID, &r.Name, &norm, &r.Composite, &r.Score, &r.Category, &flags); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(norm), &r.Normalized); err != nil {
			return nil, fmt.Errorf("decode normalized for %s: %w", r.RecordID, err)
		}
		if err := json.Unmarshal([]byte(flags), &r.Flags); err != nil {
			return nil, fmt.Errorf("decode flags for %s: %w", r.RecordID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (p *Portfolio) Close() error {
	return p.db.Close()
}
