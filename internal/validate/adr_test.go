package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func adrEntry(ref, title string) string {
	return `## ` + ref + `: ` + title + `

**ID**: ` + "`fdd-shop-adr-" + Slugify(title) + "`" + `
**Date**: 2026-01-15
**Status**: Accepted

### Context and Problem Statement

Context here.

### Decision Drivers

Drivers here.

### Considered Options

Options here.

### Decision Outcome

Outcome here.

### Related Design Elements

- ` + "`fdd-shop-cap-ordering`" + `

`
}

func TestParseADRIndex(t *testing.T) {
	text := "# Decisions\n\n" + adrEntry("ADR-0001", "Use Postgres") + adrEntry("ADR-0002", "Event Sourcing")
	idx, issues := ParseADRIndex(text)
	if len(issues) != 0 {
		t.Fatalf("issues = %+v", issues)
	}
	if len(idx.Entries) != 2 {
		t.Fatalf("entries = %d", len(idx.Entries))
	}

	e := idx.Entries[0]
	if e.Ref != "ADR-0001" || e.Num != 1 || e.Title != "Use Postgres" {
		t.Errorf("entry = %+v", e)
	}
	if e.Date != "2026-01-15" || e.Status != "Accepted" {
		t.Errorf("metadata = %+v", e)
	}
	if e.ID != "fdd-shop-adr-use-postgres" {
		t.Errorf("linked id = %q", e.ID)
	}
	if idx.NumToID[2] != "fdd-shop-adr-event-sourcing" {
		t.Errorf("num mapping = %v", idx.NumToID)
	}
}

func TestParseADRIndexDuplicateRef(t *testing.T) {
	text := adrEntry("ADR-0001", "First") + adrEntry("ADR-0001", "Second")
	idx, issues := ParseADRIndex(text)
	if len(idx.Entries) != 2 {
		t.Errorf("entries = %d", len(idx.Entries))
	}
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "Duplicate ADR reference ADR-0001") {
		t.Errorf("issues = %+v", issues)
	}
}

func TestAdrBodyIssues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantMsg string
	}{
		{
			"missing date",
			func(s string) string { return strings.Replace(s, "**Date**: 2026-01-15\n", "", 1) },
			"Missing **Date**: YYYY-MM-DD",
		},
		{
			"invalid status",
			func(s string) string { return strings.Replace(s, "**Status**: Accepted", "**Status**: Done", 1) },
			"Missing or invalid **Status**",
		},
		{
			"missing canonical section",
			func(s string) string { return strings.Replace(s, "### Decision Drivers\n\nDrivers here.\n", "", 1) },
			"Missing section: ### Decision Drivers",
		},
		{
			"empty related elements",
			func(s string) string {
				return strings.Replace(s, "- `fdd-shop-cap-ordering`", "Nothing linked.", 1)
			},
			"Related Design Elements must contain at least one ID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateADR(tt.mutate(adrEntry("ADR-0001", "Use Postgres")), DocOptions{SkipFS: true})
			if r.Status != StatusFail {
				t.Fatal("expected FAIL")
			}
			found := false
			for _, is := range r.ADRIssues {
				if is.ADR == "ADR-0001" && strings.Contains(is.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q, got %+v", tt.wantMsg, r.ADRIssues)
			}
		})
	}
}

func TestValidateADRCrossReferences(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	write("BUSINESS.md", "Actors: `fdd-shop-actor-shopper`\nCaps: `fdd-shop-cap-ordering`\n")
	write("DESIGN.md", "**ID**: `fdd-shop-req-pay`\n")
	adrPath := write("ADR.md", adrEntry("ADR-0001", "Use Postgres"))

	r := ValidateADR(adrEntry("ADR-0001", "Use Postgres"), DocOptions{Path: adrPath})
	if r.Status != StatusPass {
		t.Fatalf("status = %s, errors = %+v, adr = %+v", r.Status, r.Errors, r.ADRIssues)
	}

	bad := strings.Replace(adrEntry("ADR-0001", "Use Postgres"),
		"`fdd-shop-cap-ordering`", "`fdd-shop-cap-unheard-of`", 1)
	r = ValidateADR(bad, DocOptions{Path: adrPath})
	found := false
	for _, is := range r.ADRIssues {
		if strings.Contains(is.Message, "Unknown capability IDs") {
			found = true
		}
	}
	if !found {
		t.Errorf("unknown capability not reported: %+v", r.ADRIssues)
	}
}

func TestValidateADRMissingSiblings(t *testing.T) {
	dir := t.TempDir()
	adrPath := filepath.Join(dir, "ADR.md")
	r := ValidateADR(adrEntry("ADR-0001", "Use Postgres"), DocOptions{Path: adrPath})
	cross := issuesOfType(r.Errors, "cross")
	if len(cross) != 2 {
		t.Errorf("cross issues = %+v", cross)
	}
}
