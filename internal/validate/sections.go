package validate

import (
	"sort"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
)

// PresentSectionIDs returns the sequence of top-level section codes in
// document order, exactly as they appear — duplicates included.
func PresentSectionIDs(text string) []string {
	var present []string
	for _, line := range strings.Split(text, "\n") {
		m := artifact.HeadingIDRE.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			present = append(present, m[1])
		}
	}
	return present
}

// SectionIssues checks a document's section sequence against a canonical
// required ordering: duplicate codes and any deviation of the present
// required subsequence from the canonical order are structural errors.
func SectionIssues(present []string, requiredOrder []string) []Issue {
	var errors []Issue

	counts := make(map[string]int)
	for _, sid := range present {
		counts[sid]++
	}
	var dups []string
	for sid, c := range counts {
		if c > 1 {
			dups = append(dups, sid)
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		errors = append(errors, Issue{
			Type:    "structure",
			Message: "Duplicate section ids in artifact",
			IDs:     dups,
		})
	}

	required := make(map[string]bool, len(requiredOrder))
	for _, sid := range requiredOrder {
		required[sid] = true
	}
	var presentRequired []string
	for _, sid := range present {
		if required[sid] {
			presentRequired = append(presentRequired, sid)
		}
	}
	if !equalStrings(presentRequired, requiredOrder) {
		errors = append(errors, Issue{
			Type:          "structure",
			Message:       "Sections are not in required order",
			RequiredOrder: requiredOrder,
			FoundOrder:    presentRequired,
		})
	}

	return errors
}

// MissingSectionList returns the required sections absent from the present
// sequence, in schema order.
func MissingSectionList(present []string, schema *Schema) []MissingSection {
	seen := make(map[string]bool, len(present))
	for _, sid := range present {
		seen[sid] = true
	}

	var missing []MissingSection
	for _, sid := range schema.Order {
		if !seen[sid] {
			missing = append(missing, MissingSection{ID: sid, Title: schema.Titles[sid]})
		}
	}
	return missing
}

// ValidateGeneric validates an artifact against a required-sections schema:
// presence, duplication, and ordering, plus placeholder detection. A schema
// that parses to nothing is itself a failure — the caller asked for section
// validation it cannot perform.
func ValidateGeneric(text string, schema *Schema, schemaPath string) *Result {
	if schema.Empty() {
		return (&Result{
			MissingSections: []MissingSection{},
			PlaceholderHits: FindPlaceholders(text),
			Errors: []Issue{{
				Type:    "requirements",
				Message: "Could not parse required sections from requirements file (expected headings like '### Section X: ...')",
				Target:  schemaPath,
			}},
		}).Finalize()
	}

	present := PresentSectionIDs(text)
	missing := MissingSectionList(present, schema)
	if missing == nil {
		missing = []MissingSection{}
	}

	r := &Result{
		RequiredSectionCount: len(schema.Order),
		MissingSections:      missing,
		PlaceholderHits:      FindPlaceholders(text),
		Errors:               SectionIssues(present, schema.Order),
	}
	return r.Finalize()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
