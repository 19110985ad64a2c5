package finctrl

import (
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	var b strings.Builder
	headers := []string{"parcel", "amount"}
	rows := [][]string{{"1", "-30.00"}, {"2", "12;50"}}

	if err := ExportCSV(&b, ';', headers, rows); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	want := "parcel;amount\n1;-30.00\n2;\"12;50\"\n"
	if b.String() != want {
		t.Errorf("ExportCSV() = %q, want %q", b.String(), want)
	}
}

func TestExportCSVNoHeaders(t *testing.T) {
	var b strings.Builder
	if err := ExportCSV(&b, 0, nil, [][]string{{"a", "b"}}); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	if b.String() != "a,b\n" {
		t.Errorf("ExportCSV() = %q", b.String())
	}
}
