// Package dataset generates plausible synthetic portfolio records for
// demos and load testing. Generation is deterministic for a fixed seed,
// and the emitted CSV round-trips through the ingest package.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"folio/internal/domain"
	"folio/internal/logging"
)

// Name pools per domain. Combined as "<prefix> <noun>" plus a numeric
// suffix when n exceeds the pool.
var namePools = map[string][2][]string{
	domain.Applications: {
		{"Customer", "Vendor", "Employee", "Field", "Legacy", "Regional", "Global", "Core"},
		{"Billing", "CRM", "Portal", "Data Warehouse", "Scheduler", "Inventory", "Ledger", "Gateway"},
	},
	domain.Projects: {
		{"Plant", "Fleet", "Grid", "Terminal", "Campus", "Pipeline", "Depot", "Harbor"},
		{"Expansion", "Modernization", "Retrofit", "Consolidation", "Upgrade", "Buildout", "Migration", "Renewal"},
	},
	domain.Contracts: {
		{"Cloud", "Facilities", "Logistics", "Staffing", "Security", "Network", "Maintenance", "Consulting"},
		{"MSA", "SOW", "License", "Lease", "SLA", "Framework Agreement", "Retainer", "Support Contract"},
	},
}

var metadataPools = map[string]map[string][]string{
	domain.Applications: {
		"business_unit": {"finance", "operations", "sales", "hr", "it"},
		"platform":      {"on-prem", "saas", "private-cloud", "public-cloud"},
	},
	domain.Projects: {
		"region":  {"northeast", "southwest", "central", "international"},
		"phase":   {"initiation", "design", "execution", "closeout"},
		"sponsor": {"coo", "cfo", "cto", "board"},
	},
	domain.Contracts: {
		"vendor":       {"Northwind", "Fabrikam", "Contoso", "Adventure Works", "Tailspin"},
		"renewal_year": {"2026", "2027", "2028"},
	},
}

// idPrefixes keeps generated IDs short and domain-recognizable.
var idPrefixes = map[string]string{
	domain.Applications: "app",
	domain.Projects:     "prj",
	domain.Contracts:    "ct",
}

// Generate produces n synthetic records for the domain. The same seed
// always yields the same records.
func Generate(d domain.Domain, n int, seed int64) []domain.Record {
	rng := rand.New(rand.NewSource(seed))
	pool := namePools[d.Name]
	meta := metadataPools[d.Name]
	prefix := idPrefixes[d.Name]
	if prefix == "" {
		prefix = "rec"
	}

	metaKeys := make([]string, 0, len(meta))
	for k := range meta {
		metaKeys = append(metaKeys, k)
	}
	sort.Strings(metaKeys) // map order must not leak into the RNG stream

	records := make([]domain.Record, 0, n)
	seenNames := make(map[string]int)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("synthetic %d", i+1)
		if len(pool[0]) > 0 && len(pool[1]) > 0 {
			name = pool[0][rng.Intn(len(pool[0]))] + " " + pool[1][rng.Intn(len(pool[1]))]
		}
		seenNames[name]++
		if c := seenNames[name]; c > 1 {
			name = fmt.Sprintf("%s %d", name, c)
		}

		rec := domain.Record{
			ID:         fmt.Sprintf("%s-%04d", prefix, i+1),
			Name:       name,
			Domain:     d.Name,
			Attributes: make(map[string]float64, len(d.Attributes)),
			Metadata:   make(map[string]string, len(metaKeys)),
			AnnualCost: float64(rng.Intn(490)+10) * 1000,
		}
		for _, attr := range d.Attributes {
			// Triangular-ish distribution: average of two uniforms keeps
			// most items mid-range with believable outliers.
			u := (rng.Float64() + rng.Float64()) / 2
			v := attr.Min + u*(attr.Max-attr.Min)
			rec.Attributes[attr.Key] = round2(v)
		}
		for _, k := range metaKeys {
			vals := meta[k]
			rec.Metadata[k] = vals[rng.Intn(len(vals))]
		}
		records = append(records, rec)
	}

	logging.Dataset("generated %d %s records (seed %d)", n, d.Name, seed)
	return records
}

// WriteCSV emits records in the column layout the ingest package reads.
func WriteCSV(w io.Writer, d domain.Domain, records []domain.Record) error {
	cw := csv.NewWriter(w)

	metaKeys := metadataKeys(records)
	header := []string{"id", "name"}
	for _, attr := range d.Attributes {
		header = append(header, attr.Key)
	}
	header = append(header, "annual_cost")
	header = append(header, metaKeys...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.ID, rec.Name}
		for _, attr := range d.Attributes {
			if v, ok := rec.Attributes[attr.Key]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strconv.FormatFloat(rec.AnnualCost, 'f', -1, 64))
		for _, k := range metaKeys {
			row = append(row, rec.Metadata[k])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile generates the file at path.
func WriteCSVFile(path string, d domain.Domain, records []domain.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteCSV(f, d, records); err != nil {
		return err
	}
	return f.Close()
}

func metadataKeys(records []domain.Record) []string {
	set := make(map[string]bool)
	for _, rec := range records {
		for k := range rec.Metadata {
			set[k] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
