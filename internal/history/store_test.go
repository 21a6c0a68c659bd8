package history

import (
	"fmt"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Record(RecordParams{
		Kind:       "design",
		Path:       "/proj/architecture/DESIGN.md",
		Status:     "FAIL",
		IssueCount: 3,
		Result:     map[string]any{"status": "FAIL"},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	run, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Kind != "design" || run.Status != "FAIL" || run.IssueCount != 3 {
		t.Errorf("run = %+v", run)
	}
	if run.Result != `{"status":"FAIL"}` {
		t.Errorf("result = %q", run.Result)
	}
}

func TestGetMissingRun(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestRecentFiltersAndLimits(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Record(RecordParams{Kind: "business", Path: fmt.Sprintf("/p/%d", i), Status: "PASS"}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Record(RecordParams{Kind: "adr", Path: "/p/adr", Status: "PASS"}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 4 {
		t.Errorf("all runs = %d", len(runs))
	}

	runs, err = s.Recent("business", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("filtered runs = %d", len(runs))
	}
	for _, r := range runs {
		if r.Kind != "business" {
			t.Errorf("kind = %q", r.Kind)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	s1, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.Record(RecordParams{Kind: "feature", Path: "/p", Status: "PASS"}); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	runs, err := s2.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("runs after reopen = %d", len(runs))
	}
}
