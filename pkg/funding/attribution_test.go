package funding

import (
	"reflect"
	"testing"
)

func TestAggregate(t *testing.T) {
	results := []Resolution{
		{Ref: CrateRef{"serde", "1.0.200"}, Endpoints: []string{"https://github.com/sponsors/dtolnay"}},
		{Ref: CrateRef{"tokio", "1.38.0"}, Endpoints: []string{
			"https://github.com/sponsors/carllerche",
			"https://example.org/tokio",
		}},
		{Ref: CrateRef{"serde_json", "1.0.100"}, Endpoints: []string{"https://github.com/sponsors/dtolnay"}},
		{Ref: CrateRef{"orphan", "0.1.0"}},
	}

	attr := Aggregate(results)

	wantOrder := []string{
		"https://github.com/sponsors/dtolnay",
		"https://github.com/sponsors/carllerche",
		"https://example.org/tokio",
	}
	if !reflect.DeepEqual(attr.Endpoints(), wantOrder) {
		t.Errorf("Endpoints() = %v, want %v", attr.Endpoints(), wantOrder)
	}
	if attr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", attr.Len())
	}

	wantCrates := []CrateRef{{"serde", "1.0.200"}, {"serde_json", "1.0.100"}}
	if got := attr.Crates("https://github.com/sponsors/dtolnay"); !reflect.DeepEqual(got, wantCrates) {
		t.Errorf("Crates(dtolnay) = %v, want %v", got, wantCrates)
	}
}

func TestSummarize(t *testing.T) {
	results := []Resolution{
		{Ref: CrateRef{"a", "1"}, Endpoints: []string{"https://example.org/a"}},
		{Ref: CrateRef{"b", "1"}},
		{Ref: CrateRef{"c", "1"}, Endpoints: []string{"https://example.org/c1", "https://example.org/c2"}},
	}

	sum := Summarize(results)
	if sum.Total != 3 {
		t.Errorf("Total = %d, want 3", sum.Total)
	}
	if sum.Attributed != 2 {
		t.Errorf("Attributed = %d, want 2", sum.Attributed)
	}
}
