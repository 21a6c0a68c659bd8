package fdl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fddtools/fddcheck/internal/validate"
)

// Lifecycle states a change log's Status line may carry.
const (
	StatusNotStarted  = "NOT_STARTED"
	StatusInProgress  = "IN_PROGRESS"
	StatusImplemented = "IMPLEMENTED"
	StatusCompleted   = "COMPLETED"
)

var statusLineRE = regexp.MustCompile(`\*\*Status\*\*:\s*(?:⏳\s*(NOT_STARTED)|🔄\s*(IN_PROGRESS)|✨\s*(IMPLEMENTED)|✅\s*(COMPLETED))`)

// maxExamples caps how many per-instruction examples a reconciliation issue
// carries; the Count field always reports the full total.
const maxExamples = 10

// ParseStatus reads the first recognized Status line out of the change log.
// The second return is false when no such line is present.
func ParseStatus(changesText string) (string, bool) {
	m := statusLineRE.FindStringSubmatch(changesText)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}
	return "", false
}

// DesignToCode checks that every instruction the document marks complete has
// a matching, paired marker in the scanned code.
func DesignToCode(scopes []Scope, idx *MarkerIndex) []validate.Issue {
	var missing, incomplete []validate.MarkerExample
	for _, sc := range scopes {
		for _, inst := range sc.CompletedInstructions() {
			rec, ok := idx.Records[inst]
			if !ok {
				missing = append(missing, validate.MarkerExample{Scope: sc.ID, Instruction: inst})
				continue
			}
			if !rec.Complete() {
				reason := "missing fdd-end tag"
				if !rec.HasBegin {
					reason = "missing fdd-begin tag"
				}
				incomplete = append(incomplete, validate.MarkerExample{Scope: sc.ID, Instruction: inst, Reason: reason})
			}
		}
	}

	var issues []validate.Issue
	if len(missing) > 0 {
		issues = append(issues, validate.Issue{
			Type:     "fdl_code_missing",
			Message:  fmt.Sprintf("%d instruction(s) marked complete in DESIGN.md have no implementation markers in code", len(missing)),
			Count:    len(missing),
			Examples: capExamples(missing),
		})
	}
	if len(incomplete) > 0 {
		issues = append(issues, validate.Issue{
			Type:     "fdl_code_incomplete",
			Message:  fmt.Sprintf("%d instruction(s) have incomplete marker pairs in code", len(incomplete)),
			Count:    len(incomplete),
			Examples: capExamples(incomplete),
		})
	}
	return issues
}

// CodeToDesign checks the reverse direction: fully marked instructions in
// code that the feature document never marks complete. Only markers whose
// scope belongs to this feature are considered.
func CodeToDesign(idx *MarkerIndex, scopes []Scope, featureSlug string) []validate.Issue {
	documented := CompletedSet(scopes)
	needle := "-feature-" + featureSlug + "-"

	var untracked []string
	for _, inst := range idx.InstructionIDs() {
		rec := idx.Records[inst]
		if !rec.Complete() || documented[inst] {
			continue
		}
		for scope := range rec.Scopes {
			if strings.Contains(scope, needle) {
				untracked = append(untracked, inst)
				break
			}
		}
	}
	if len(untracked) == 0 {
		return nil
	}
	sort.Strings(untracked)
	shown := untracked
	if len(shown) > maxExamples {
		shown = shown[:maxExamples]
	}
	return []validate.Issue{{
		Type:       "fdl_untracked_implementation",
		Message:    fmt.Sprintf("%d instruction(s) fully marked in code but not checked off in DESIGN.md", len(untracked)),
		Count:      len(untracked),
		IDs:        shown,
		Suggestion: "check off the corresponding steps in DESIGN.md or remove stale markers",
	}}
}

// ReconcileStatus validates the change log's declared lifecycle state
// against the document's own steps and the code markers. IMPLEMENTED
// demands code evidence for every complete step; COMPLETED demands the
// document itself have no unchecked steps left.
func ReconcileStatus(status string, scopes []Scope, idx *MarkerIndex) []validate.Issue {
	switch status {
	case StatusImplemented:
		if idx == nil {
			return nil
		}
		return relabel(DesignToCode(scopes, idx), "fdl_implemented_incomplete")
	case StatusCompleted:
		var undone []validate.MarkerExample
		for _, sc := range scopes {
			for _, step := range sc.Steps {
				if !step.Done {
					undone = append(undone, validate.MarkerExample{Scope: sc.ID, Instruction: step.ID, Reason: "unchecked step"})
				}
			}
		}
		if len(undone) == 0 {
			return nil
		}
		return []validate.Issue{{
			Type:     "premature_completion",
			Message:  fmt.Sprintf("Status is COMPLETED but %d step(s) remain unchecked in DESIGN.md", len(undone)),
			Count:    len(undone),
			Examples: capExamples(undone),
		}}
	default:
		return nil
	}
}

func relabel(issues []validate.Issue, typ string) []validate.Issue {
	for i := range issues {
		issues[i].Type = typ
	}
	return issues
}

func capExamples(examples []validate.MarkerExample) []validate.MarkerExample {
	if len(examples) > maxExamples {
		return examples[:maxExamples]
	}
	return examples
}
