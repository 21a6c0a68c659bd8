package report

import (
	"fmt"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/validate"
)

// Markdown renders one artifact result as a human-readable report.
func Markdown(kind artifact.Kind, path string, r *validate.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s — %s\n\n", strings.ToUpper(string(kind)), r.Status)
	if path != "" {
		fmt.Fprintf(&b, "Path: `%s`\n\n", path)
	}

	if r.Status == validate.StatusPass {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d issue(s):\n\n", r.IssueCount())

	for _, ms := range r.MissingSections {
		if ms.Title != "" {
			fmt.Fprintf(&b, "- missing section %s: %s\n", ms.ID, ms.Title)
		} else {
			fmt.Fprintf(&b, "- missing section %s\n", ms.ID)
		}
	}
	for _, hit := range r.PlaceholderHits {
		switch hit.Type {
		case "html_comment":
			fmt.Fprintf(&b, "- placeholder %s in HTML comment\n", hit.Token)
		case "brace_placeholder":
			fmt.Fprintf(&b, "- unfilled template token %s\n", hit.Token)
		default:
			fmt.Fprintf(&b, "- placeholder at line %d: %s\n", hit.Line, hit.Text)
		}
	}
	writeIssues(&b, r.Errors)
	writeIssues(&b, r.ADRIssues)
	writeIssues(&b, r.RequirementIssues)

	return b.String()
}

// FeatureMarkdown renders the aggregate feature report, with a linked
// table of contents over the per-artifact sections.
func FeatureMarkdown(fr *FeatureReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Feature %s — %s\n\n", fr.Feature, fr.Status)

	for _, ar := range fr.Artifacts {
		title := fmt.Sprintf("%s — %s", strings.ToUpper(string(ar.Kind)), ar.Result.Status)
		fmt.Fprintf(&b, "- [%s](#%s)\n", title, validate.Slugify(title))
	}
	b.WriteString("\n")

	for _, ar := range fr.Artifacts {
		b.WriteString(Markdown(ar.Kind, ar.Path, ar.Result))
		b.WriteString("\n")
	}

	return b.String()
}

func writeIssues(b *strings.Builder, issues []validate.Issue) {
	for _, is := range issues {
		b.WriteString("- ")
		if is.Type != "" {
			fmt.Fprintf(b, "[%s] ", is.Type)
		}
		switch {
		case is.Requirement != "":
			fmt.Fprintf(b, "%s: %s", is.Requirement, is.Message)
		case is.ADR != "":
			fmt.Fprintf(b, "%s: %s", is.ADR, is.Message)
		default:
			b.WriteString(is.Message)
		}
		if is.Line > 0 {
			fmt.Fprintf(b, " (line %d)", is.Line)
		}
		if len(is.IDs) > 0 {
			fmt.Fprintf(b, ": %s", strings.Join(is.IDs, ", "))
		}
		if len(is.RequiredOrder) > 0 {
			fmt.Fprintf(b, " (required %s, found %s)",
				strings.Join(is.RequiredOrder, ","), strings.Join(is.FoundOrder, ","))
		}
		for _, ex := range is.Examples {
			b.WriteString("\n  - ")
			if ex.Scope != "" {
				fmt.Fprintf(b, "%s / ", ex.Scope)
			}
			b.WriteString(ex.Instruction)
			if ex.Reason != "" {
				fmt.Fprintf(b, " (%s)", ex.Reason)
			}
		}
		if is.Suggestion != "" {
			fmt.Fprintf(b, "\n  suggestion: %s", is.Suggestion)
		}
		b.WriteString("\n")
	}
}
