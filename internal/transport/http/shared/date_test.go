package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got, err = ParseDate("2026-03-10T08:30:00Z")
	if err != nil {
		t.Fatalf("ParseDate RFC3339: %v", err)
	}
	if got.Day() != 10 {
		t.Fatalf("got %v", got)
	}

	if _, err := ParseDate("10/03/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty input: got %v, %v", got, err)
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=20&offset=40", nil)
	p := ParsePagination(r, 100, 500)
	if p.Limit != 20 || p.Offset != 40 {
		t.Fatalf("got %+v", p)
	}

	r = httptest.NewRequest("GET", "/", nil)
	p = ParsePagination(r, 100, 500)
	if p.Limit != 100 || p.Offset != 0 {
		t.Fatalf("defaults: got %+v", p)
	}

	r = httptest.NewRequest("GET", "/?limit=9999&offset=-3", nil)
	p = ParsePagination(r, 100, 500)
	if p.Limit != 500 || p.Offset != 0 {
		t.Fatalf("clamped: got %+v", p)
	}
}
