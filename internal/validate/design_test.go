package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDesignDoc = `# Architecture Design

## A. Principles

**ID**: ` + "`fdd-shop-principle-simplicity`" + `
Keep the system small. See ADR-0001.

## B. Constraints

Runs on a single region.

## C. Requirements

### C.1: Functional

**ID**: ` + "`fdd-shop-req-pay`" + `
Capability: ` + "`fdd-shop-cap-ordering`" + `
Actor: ` + "`fdd-shop-actor-shopper`" + `
Use case: ` + "`fdd-shop-uc-checkout`" + `
Decision: ` + "`fdd-shop-adr-use-postgres`" + `

### C.2: Non-Functional

**ID**: ` + "`fdd-shop-req-browse`" + `
Capability: ` + "`fdd-shop-cap-catalog`" + `
Actor: ` + "`fdd-shop-actor-shopper`" + `
Use case: ` + "`fdd-shop-uc-browse`" + `

### C.3: Interfaces

Interfaces here.

### C.4: Data

Data here.

### C.5: Operations

Operations here.
`

func designSiblings(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	business := sampleBusiness
	adr := adrEntry("ADR-0001", "Use Postgres")
	if err := os.WriteFile(filepath.Join(dir, "BUSINESS.md"), []byte(business), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ADR.md"), []byte(adr), 0o644); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, "DESIGN.md")
}

func TestRequirementBlocks(t *testing.T) {
	idx, _ := ParseADRIndex(adrEntry("ADR-0001", "Use Postgres"))
	blocks := RequirementBlocks(sampleDesignDoc, idx)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d", len(blocks))
	}

	b := blocks[0]
	if b.ID != "fdd-shop-req-pay" {
		t.Errorf("id = %q", b.ID)
	}
	if !b.Caps["fdd-shop-cap-ordering"] || !b.Actors["fdd-shop-actor-shopper"] {
		t.Errorf("refs = %+v", b)
	}
	if !b.ADRRefs["fdd-shop-adr-use-postgres"] {
		t.Errorf("adr refs = %v", b.ADRRefs)
	}
	// The bare ADR-0001 citation in section A belongs to no block; the
	// typed reference in C.1 does.
	if len(blocks[1].ADRRefs) != 0 {
		t.Errorf("second block adr refs = %v", blocks[1].ADRRefs)
	}
}

func TestRequirementBlocksResolveBareNumbers(t *testing.T) {
	idx, _ := ParseADRIndex(adrEntry("ADR-0001", "Use Postgres"))
	text := "**ID**: `fdd-shop-req-pay`\nSee ADR-0001 for storage.\n"
	blocks := RequirementBlocks(text, idx)
	if len(blocks) != 1 || !blocks[0].ADRRefs["fdd-shop-adr-use-postgres"] {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestValidateDesignPasses(t *testing.T) {
	path := designSiblings(t)
	r := ValidateDesign(sampleDesignDoc, DocOptions{Path: path})
	if r.Status != StatusPass {
		t.Fatalf("status = %s, errors = %+v, reqs = %+v", r.Status, r.Errors, r.RequirementIssues)
	}
	if r.RequirementCount != 2 {
		t.Errorf("requirement count = %d", r.RequirementCount)
	}
}

func TestValidateDesignMissingTopLevel(t *testing.T) {
	doc := strings.Replace(sampleDesignDoc, "## B. Constraints", "## X. Other", 1)
	r := ValidateDesign(doc, DocOptions{SkipFS: true})
	if r.Status != StatusFail {
		t.Fatal("expected FAIL")
	}
	if len(r.MissingSections) != 1 || r.MissingSections[0].ID != "B" {
		t.Errorf("missing = %+v", r.MissingSections)
	}
}

func TestValidateDesignSubsectionSequence(t *testing.T) {
	doc := strings.Replace(sampleDesignDoc, "### C.4: Data\n\nData here.\n", "", 1)
	r := ValidateDesign(doc, DocOptions{SkipFS: true})
	found := false
	for _, is := range r.Errors {
		if strings.Contains(is.Message, "C.1..C.5") {
			found = true
		}
	}
	if !found {
		t.Errorf("subsection gap not reported: %+v", r.Errors)
	}
}

func TestTraceabilityIssues(t *testing.T) {
	bm := ParseBusinessModel(sampleBusiness)
	adrIdx, _ := ParseADRIndex(adrEntry("ADR-0001", "Use Postgres"))

	tests := []struct {
		name    string
		block   string
		wantMsg string
	}{
		{
			"missing capability",
			"**ID**: `fdd-shop-req-x`\nActor: `fdd-shop-actor-shopper`\n",
			"Missing capability references",
		},
		{
			"missing actor",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-ordering`\n",
			"Missing actor references",
		},
		{
			"unknown actor",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-ordering`\nActor: `fdd-shop-actor-stranger`\n",
			"Unknown actor IDs",
		},
		{
			"unknown capability",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-shipping`\nActor: `fdd-shop-actor-shopper`\n",
			"Unknown capability IDs",
		},
		{
			"actor outside capability",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-ordering`\nActor: `fdd-shop-actor-admin`\n",
			"Actors must match actors of referenced capabilities",
		},
		{
			"unknown use case",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-ordering`\nActor: `fdd-shop-actor-shopper`\nUse case: `fdd-shop-uc-teleport`\n",
			"Unknown use case IDs",
		},
		{
			"unknown adr",
			"**ID**: `fdd-shop-req-x`\nCapability: `fdd-shop-cap-ordering`\nActor: `fdd-shop-actor-shopper`\nDecision: `fdd-shop-adr-nonexistent`\n",
			"Unknown ADR references",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := RequirementBlocks(tt.block, adrIdx)
			issues := traceabilityIssues(blocks, bm, adrIdx)
			found := false
			for _, is := range issues {
				if is.Message == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q, got %+v", tt.wantMsg, issues)
			}
		})
	}
}

func TestTraceabilityNoRequirements(t *testing.T) {
	issues := traceabilityIssues(nil, nil, nil)
	if len(issues) != 1 || issues[0].Message != "No functional requirement IDs found" {
		t.Errorf("issues = %+v", issues)
	}
}

func TestOrphanIssues(t *testing.T) {
	bm := ParseBusinessModel(sampleBusiness)
	adrIdx, _ := ParseADRIndex(adrEntry("ADR-0001", "Use Postgres"))

	// One requirement covering only the ordering capability and the
	// checkout use case; catalog, browse, and the decision go orphaned.
	text := "**ID**: `fdd-shop-req-pay`\nCapability: `fdd-shop-cap-ordering`\nActor: `fdd-shop-actor-shopper`\nUse case: `fdd-shop-uc-checkout`\n"
	blocks := RequirementBlocks(text, adrIdx)
	issues := orphanIssues(text, blocks, bm, adrIdx)

	want := map[string][]string{
		"Orphaned capabilities (not referenced in DESIGN.md requirements)": {"fdd-shop-cap-catalog"},
		"Orphaned use cases (not referenced in DESIGN.md requirements)":    {"fdd-shop-uc-browse"},
		"Orphaned ADRs (not referenced in DESIGN.md)":                      {"fdd-shop-adr-use-postgres"},
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %+v", issues)
	}
	for _, is := range issues {
		wantIDs, ok := want[is.Message]
		if !ok {
			t.Errorf("unexpected issue %+v", is)
			continue
		}
		if len(is.IDs) != len(wantIDs) || is.IDs[0] != wantIDs[0] {
			t.Errorf("%s ids = %v, want %v", is.Message, is.IDs, wantIDs)
		}
	}
}
