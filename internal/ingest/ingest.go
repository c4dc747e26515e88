// Package ingest loads tabular CSV records into the folio record model.
// Validation is all-or-nothing: any invalid row fails the whole load so
// a partially ingested portfolio can never reach the scoring engine.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"folio/internal/domain"
	"folio/internal/logging"
)

// Issue is one validation problem found in the input, tagged with the
// 1-based line number it was found on.
type Issue struct {
	Line    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ValidationError aggregates every issue found in a load.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid input: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid input (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Reserved column names with dedicated fields on Record.
const (
	colID   = "id"
	colName = "name"
	colCost = "annual_cost"
)

// ReadRecords parses CSV for the given domain. The header row is
// required; columns matching the domain's attribute keys become
// attributes, annual_cost is recognized, and everything else lands in
// metadata. Header-only input yields an empty slice.
func ReadRecords(r io.Reader, d domain.Domain) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // UTF-8 BOM on first column
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idIdx, nameIdx := -1, -1
	for i, c := range cols {
		switch c {
		case colID:
			idIdx = i
		case colName:
			nameIdx = i
		}
	}
	if idIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("header must contain %q and %q columns, got: %s", colID, colName, strings.Join(cols, ","))
	}

	var (
		records []domain.Record
		issues  []Issue
		seen    = make(map[string]int) // id -> first line
		line    = 1
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			issues = append(issues, Issue{Line: line, Message: err.Error()})
			continue
		}

		rec := domain.Record{
			Domain:     d.Name,
			Attributes: make(map[string]float64),
			Metadata:   make(map[string]string),
		}
		rowOK := true

		for i, raw := range row {
			if i >= len(cols) {
				break
			}
			val := strings.TrimSpace(raw)
			switch key := cols[i]; key {
			case colID:
				rec.ID = val
			case colName:
				rec.Name = val
			case colCost:
				if val == "" {
					continue
				}
				cost, err := strconv.ParseFloat(val, 64)
				if err != nil {
					issues = append(issues, Issue{Line: line, Message: fmt.Sprintf("annual_cost %q is not numeric", val)})
					rowOK = false
					continue
				}
				rec.AnnualCost = cost
			default:
				if _, isAttr := d.Attribute(key); isAttr {
					if val == "" {
						continue // missing attribute; flagged at scoring time
					}
					f, err := strconv.ParseFloat(val, 64)
					if err != nil {
						issues = append(issues, Issue{Line: line, Message: fmt.Sprintf("attribute %s: %q is not numeric", key, val)})
						rowOK = false
						continue
					}
					rec.Attributes[key] = f
				} else if val != "" {
					rec.Metadata[key] = val
				}
			}
		}

		if rec.ID == "" {
			issues = append(issues, Issue{Line: line, Message: "blank id"})
			rowOK = false
		} else if first, dup := seen[rec.ID]; dup {
			issues = append(issues, Issue{Line: line, Message: fmt.Sprintf("duplicate id %q (first seen on line %d)", rec.ID, first)})
			rowOK = false
		} else {
			seen[rec.ID] = line
		}

		if rowOK {
			records = append(records, rec)
		}
	}

	if len(issues) > 0 {
		logging.Get(logging.CategoryIngest).Warn("rejected %s load with %d issues", d.Name, len(issues))
		return nil, &ValidationError{Issues: issues}
	}

	logging.Ingest("loaded %d %s records", len(records), d.Name)
	return records, nil
}

// LoadFile reads a CSV file for the given domain.
func LoadFile(path string, d domain.Domain) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
