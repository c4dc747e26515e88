package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"folio/internal/domain"
)

func contractsDomain(t *testing.T) domain.Domain {
	t.Helper()
	d, err := domain.Builtin().Get(domain.Contracts)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return d
}

func TestReadRecords(t *testing.T) {
	d := contractsDomain(t)
	input := `id,name,vendor,vendor_performance,utilization,annual_cost
ct-1,Cloud Hosting MSA,Northwind,8.5,92,250000
ct-2,Payroll SaaS,Fabrikam,6.0,40,80000
`
	records, err := ReadRecords(strings.NewReader(input), d)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := domain.Record{
		ID:     "ct-1",
		Name:   "Cloud Hosting MSA",
		Domain: domain.Contracts,
		Attributes: map[string]float64{
			"vendor_performance": 8.5,
			"utilization":        92,
		},
		Metadata:   map[string]string{"vendor": "Northwind"},
		AnnualCost: 250000,
	}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordsHeaderOnly(t *testing.T) {
	d := contractsDomain(t)
	records, err := ReadRecords(strings.NewReader("id,name,vendor_performance\n"), d)
	if err != nil {
		t.Fatalf("header-only input should not error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadRecordsMissingHeader(t *testing.T) {
	d := contractsDomain(t)
	if _, err := ReadRecords(strings.NewReader(""), d); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ReadRecords(strings.NewReader("name,vendor\nA,B\n"), d); err == nil {
		t.Error("expected error for missing id column")
	}
}

func TestReadRecordsBOM(t *testing.T) {
	d := contractsDomain(t)
	input := "\ufeffid,name\nct-9,Benefits Broker\n"
	records, err := ReadRecords(strings.NewReader(input), d)
	if err != nil {
		t.Fatalf("BOM input failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "ct-9" {
		t.Errorf("BOM not tolerated: %+v", records)
	}
}

func TestReadRecordsCollectsAllIssues(t *testing.T) {
	d := contractsDomain(t)
	input := `id,name,vendor_performance,annual_cost
ct-1,Alpha,high,100
,Beta,5,100
ct-1,Gamma,5,oops
`
	_, err := ReadRecords(strings.NewReader(input), d)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	// line 2: non-numeric attribute; line 3: blank id;
	// line 4: non-numeric cost plus duplicate id.
	if len(verr.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
	if verr.Issues[0].Line != 2 {
		t.Errorf("first issue should be on line 2, got %d", verr.Issues[0].Line)
	}
	if !strings.Contains(err.Error(), "4 issues") {
		t.Errorf("error summary missing issue count: %v", err)
	}
}

func TestReadRecordsMissingAttributeIsAllowed(t *testing.T) {
	d := contractsDomain(t)
	input := "id,name,vendor_performance\nct-1,Alpha,\n"
	records, err := ReadRecords(strings.NewReader(input), d)
	if err != nil {
		t.Fatalf("blank attribute cell should not error: %v", err)
	}
	if _, present := records[0].Attributes["vendor_performance"]; present {
		t.Error("blank cell should leave attribute absent, not zero")
	}
}
