package artifact

import "regexp"

// Line-level document conventions shared by the validators. Each pattern
// recognizes one line form from the FDD writing rules; validators classify
// lines with these instead of re-deriving ad hoc expressions.
var (
	// HeadingIDRE matches top-level section headings: "## A. Title".
	HeadingIDRE = regexp.MustCompile(`^##\s+([A-Z])[.:]\s*`)

	// HeadingRE matches any markdown heading line (levels 2-6).
	HeadingRE = regexp.MustCompile(`^#{2,6}\s+`)

	// VerboseSectionRE matches the rejected "## Section X:" heading spelling.
	VerboseSectionRE = regexp.MustCompile(`^##\s+Section\s+[A-Z]:`)

	// DesignSubsectionRE matches design sub-sections: "### C.1: Title".
	DesignSubsectionRE = regexp.MustCompile(`(?m)^###\s+C\.(\d+)\s*[:.]`)

	// IDLineRE captures the value of an identifier declaration line.
	IDLineRE = regexp.MustCompile(`\*\*ID\*\*:\s*(.+)$`)

	// CheckboxIDLineRE matches checkbox-prefixed ID declarations, which are
	// exempt from the backtick-wrapping rule.
	CheckboxIDLineRE = regexp.MustCompile(`^\s*[-*]\s+\[[ xX]\]\s+\*\*ID\*\*:\s+`)

	// IDLineStartRE matches any spelling of an ID declaration line start,
	// checkbox or not, for the heading-spacing rule.
	IDLineStartRE = regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?(?:\[[ xX]\]\s*)?\*\*ID\*\*:\s*`)

	// ADRHeadingRE matches decision record headings: "## ADR-0001: Title".
	ADRHeadingRE = regexp.MustCompile(`^##\s+(ADR-(\d{4})):\s+(.+)$`)

	// ADRDateRE captures the "**Date**: YYYY-MM-DD" metadata line.
	ADRDateRE = regexp.MustCompile(`\*\*Date\*\*:\s*(\d{4}-\d{2}-\d{2})`)

	// ADRStatusRE captures the "**Status**:" metadata line for decisions.
	ADRStatusRE = regexp.MustCompile(`\*\*Status\*\*:\s*(Proposed|Accepted|Deprecated|Superseded)`)

	// ADRNumRE matches bare decision references by sequence number.
	ADRNumRE = regexp.MustCompile(`\bADR-(\d{4})\b`)

	// PlaceholderRE matches unresolved-work tokens in any line.
	PlaceholderRE = regexp.MustCompile(`\b(TODO|TBD|FIXME|XXX|TBA)\b`)

	// BracePlaceholderRE matches brace-delimited template tokens such as
	// "{Short Title}" left over from artifact skeletons.
	BracePlaceholderRE = regexp.MustCompile(`\{[A-Z][A-Za-z0-9 _-]*\}`)

	// HTMLCommentRE matches HTML comments, including multi-line ones.
	HTMLCommentRE = regexp.MustCompile(`(?s)<!--.*?-->`)

	// LinkRE captures markdown links: [text](target).
	LinkRE = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

	// CodeSpanRE matches inline code spans; backticked identifiers are
	// preferred over bare prose matches wherever both forms occur.
	CodeSpanRE = regexp.MustCompile("`([^`]+)`")

	// FDLScopeLineRE matches a scope declaration line: a checkbox list item
	// declaring a scope ID.
	FDLScopeLineRE = regexp.MustCompile(`^\s*[-*]\s+\[[ xX]\]\s+\*\*ID\*\*:`)

	// FDLStepLineRE matches a numbered instruction step with its checkbox.
	FDLStepLineRE = regexp.MustCompile(`^\s*\d+\.\s*\[([ xX])\]`)

	// FDLStepInstRE captures the trailing backticked instruction token of a
	// step line.
	FDLStepInstRE = regexp.MustCompile("`(inst-[a-z0-9-]+)`\\s*$")
)
