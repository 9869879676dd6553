package funding

import "testing"

func TestRender(t *testing.T) {
	results := []Resolution{
		{Ref: CrateRef{"serde", "1.0.200"}, Endpoints: []string{"https://github.com/sponsors/dtolnay"}},
		{Ref: CrateRef{"serde_json", "1.0.100"}, Endpoints: []string{"https://github.com/sponsors/dtolnay"}},
		{Ref: CrateRef{"tokio", "1.38.0"}, Endpoints: []string{"https://example.org/tokio"}},
		{Ref: CrateRef{"orphan", "0.1.0"}},
	}

	got := Render(Aggregate(results), Summarize(results), "/work/project")
	want := `/work/project (found funding links for 3 out of 4 dependencies)
├── https://github.com/sponsors/dtolnay
│   ├── serde 1.0.200
│   └── serde_json 1.0.100
└── https://example.org/tokio
    └── tokio 1.38.0
`

	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderNoFindings(t *testing.T) {
	results := []Resolution{{Ref: CrateRef{"a", "1.0.0"}}}

	got := Render(Aggregate(results), Summarize(results), "/work/project")
	want := "/work/project (found funding links for 0 out of 1 dependencies)\n"

	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderNoLabel(t *testing.T) {
	got := Render(Aggregate(nil), Summarize(nil), "")
	want := "found funding links for 0 out of 0 dependencies\n"

	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
