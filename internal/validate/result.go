// Package validate implements the structural and cross-artifact validators
// for FDD documents: section structure, placeholder and link checks, the
// business model parser, the decision-record indexer, and the requirement
// traceability engine.
//
// Validators never abort on a violation — every finding accumulates into a
// Result and the validator returns a complete report. The only hard errors
// are an unreadable artifact the caller explicitly asked to validate and a
// malformed required-sections schema, both surfaced as a single error entry.
package validate

// Issue is a single validation finding. Type tags follow a fixed taxonomy:
// structure, cross, traceability, requirements, id, link_format, link_target,
// section_heading, and the fdl* family. Only the fields relevant to a given
// finding are populated.
type Issue struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`

	Line    int    `json:"line,omitempty"`
	Text    string `json:"text,omitempty"`
	Section string `json:"section,omitempty"`
	Target  string `json:"target,omitempty"`
	Token   string `json:"token,omitempty"`

	Requirement string `json:"requirement,omitempty"`
	ADR         string `json:"adr,omitempty"`
	ScopeID     string `json:"scope_id,omitempty"`

	IDs     []string `json:"ids,omitempty"`
	Actors  []string `json:"actors,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
	Missing []string `json:"missing,omitempty"`

	RequiredOrder []string `json:"required_order,omitempty"`
	FoundOrder    []string `json:"found_order,omitempty"`

	Count    int             `json:"count,omitempty"`
	Examples []MarkerExample `json:"examples,omitempty"`

	Suggestion string `json:"suggestion,omitempty"`
}

// MarkerExample is one bounded example in a marker reconciliation issue.
type MarkerExample struct {
	Scope       string `json:"scope,omitempty"`
	Instruction string `json:"instruction"`
	Reason      string `json:"reason,omitempty"`
}

// PlaceholderHit records one unresolved-work marker found in a document.
type PlaceholderHit struct {
	Type  string `json:"type,omitempty"` // "" (plain line), html_comment, brace_placeholder
	Token string `json:"token,omitempty"`
	Line  int    `json:"line,omitempty"`
	Text  string `json:"text,omitempty"`
}

// MissingSection names a required section absent from an artifact.
type MissingSection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Statuses for a validation result.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// Result is the structured outcome of validating one artifact. It is
// immutable once returned; Status is PASS iff every issue list is empty —
// never computed from a subset.
type Result struct {
	RequiredSectionCount int              `json:"required_section_count"`
	MissingSections      []MissingSection `json:"missing_sections"`
	PlaceholderHits      []PlaceholderHit `json:"placeholder_hits"`
	Status               string           `json:"status"`
	Errors               []Issue          `json:"errors"`

	ADRIssues []Issue `json:"adr_issues,omitempty"`
	ADRCount  int     `json:"adr_count,omitempty"`

	RequirementIssues []Issue `json:"requirement_issues,omitempty"`
	RequirementCount  int     `json:"requirement_count,omitempty"`
}

// Finalize computes the overall status from every accumulated list and
// returns the result. Missing sections count as failures alongside errors,
// placeholders, and the artifact-specific issue lists.
func (r *Result) Finalize() *Result {
	passed := len(r.Errors) == 0 &&
		len(r.PlaceholderHits) == 0 &&
		len(r.MissingSections) == 0 &&
		len(r.ADRIssues) == 0 &&
		len(r.RequirementIssues) == 0
	if passed {
		r.Status = StatusPass
	} else {
		r.Status = StatusFail
	}
	return r
}

// IssueCount returns the total number of findings across all lists.
func (r *Result) IssueCount() int {
	return len(r.Errors) + len(r.PlaceholderHits) + len(r.MissingSections) +
		len(r.ADRIssues) + len(r.RequirementIssues)
}

// DocOptions carries the filesystem context for a validation call.
// A zero Path with SkipFS set permits pure in-memory validation of text
// fixtures — the system's only concession to test isolation.
type DocOptions struct {
	// Path is the artifact's location on disk, used to resolve sibling
	// documents and relative link targets.
	Path string

	// Explicit sibling overrides; empty values fall back to the canonical
	// file name next to Path.
	BusinessPath string
	DesignPath   string
	ADRPath      string
	ChangesPath  string

	// SkipFS suppresses all filesystem access: sibling loading, link
	// target resolution, and the code-marker scan.
	SkipFS bool
}
