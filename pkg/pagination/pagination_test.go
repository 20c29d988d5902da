package pagination

import (
	"net/url"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("expected default for zero")
	}
	if NormalizeLimit(-5) != DefaultLimit {
		t.Fatal("expected default for negative")
	}
	if NormalizeLimit(1000) != MaxLimit {
		t.Fatal("expected cap at max")
	}
	if NormalizeLimit(10) != 10 {
		t.Fatal("expected passthrough within range")
	}
}

func TestFromQueryAndOffset(t *testing.T) {
	q, _ := url.ParseQuery("page=3&limit=10")
	params := FromQuery(q)
	if params.Page != 3 || params.Limit != 10 {
		t.Fatalf("unexpected params %+v", params)
	}
	if params.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", params.Offset())
	}

	empty := FromQuery(url.Values{})
	if empty.Page != 1 || empty.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults %+v", empty)
	}
}

func TestMetaFor(t *testing.T) {
	meta := MetaFor(Params{Page: 2, Limit: 10}, 35)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 35 {
		t.Fatalf("expected total 35, got %d", meta.Total)
	}

	if MetaFor(Params{}, 0).TotalPages != 1 {
		t.Fatal("expected at least one page for empty result")
	}
}
