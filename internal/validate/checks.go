package validate

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
)

// placeholderWords is the fixed unresolved-work vocabulary.
var placeholderWords = []string{"TODO", "TBD", "FIXME", "XXX", "TBA"}

// ideNotationRE matches IDE-specific link notation that must not appear in
// artifacts — links have to be plain relative markdown targets.
var ideNotationRE = regexp.MustCompile(`(@/|@DESIGN\.md|@BUSINESS\.md|@ADR\.md)`)

// FindPlaceholders scans line-by-line for unresolved-work tokens and
// records each hit with its 1-based line number and trimmed text.
func FindPlaceholders(text string) []PlaceholderHit {
	var hits []PlaceholderHit
	for idx, line := range strings.Split(text, "\n") {
		if artifact.PlaceholderRE.MatchString(line) {
			hits = append(hits, PlaceholderHit{Line: idx + 1, Text: strings.TrimSpace(line)})
		}
	}
	return hits
}

// CommonChecks applies the format rules shared by every artifact kind:
// placeholder markers inside HTML comments, brace-delimited template
// tokens, link format and target validity, identifier declaration rules,
// heading-to-ID spacing, and the rejected section heading spelling.
//
// Link target resolution requires filesystem access and is suppressed by
// skipFS, which callers use for pure in-memory validation.
func CommonChecks(text, path string, skipFS bool) (errors []Issue, placeholders []PlaceholderHit) {
	for _, comment := range artifact.HTMLCommentRE.FindAllString(text, -1) {
		upper := strings.ToUpper(comment)
		for _, word := range placeholderWords {
			if strings.Contains(upper, word) {
				placeholders = append(placeholders, PlaceholderHit{
					Type:  "html_comment",
					Token: word,
					Text:  truncate(comment, 50),
				})
				break
			}
		}
	}

	for _, tok := range artifact.BracePlaceholderRE.FindAllString(text, -1) {
		placeholders = append(placeholders, PlaceholderHit{Type: "brace_placeholder", Token: tok})
	}

	for _, tok := range ideNotationRE.FindAllString(text, -1) {
		errors = append(errors, Issue{
			Type:    "link_format",
			Message: "Disallowed IDE-specific link notation",
			Token:   tok,
		})
	}

	lines := strings.Split(text, "\n")

	errors = append(errors, linkIssues(lines, path, skipFS)...)
	errors = append(errors, idLineIssues(lines)...)
	errors = append(errors, headingSpacingIssues(lines)...)

	for idx, line := range lines {
		if artifact.VerboseSectionRE.MatchString(strings.TrimSpace(line)) {
			errors = append(errors, Issue{
				Type:    "section_heading",
				Message: "Disallowed section heading format (use '## A. Title')",
				Line:    idx + 1,
				Text:    strings.TrimSpace(line),
			})
		}
	}

	return errors, placeholders
}

// linkIssues validates every markdown link target. Intra-document anchors
// must resolve to a slugified heading; absolute paths are always errors;
// relative targets must exist next to the artifact unless filesystem access
// is suppressed.
func linkIssues(lines []string, path string, skipFS bool) []Issue {
	var errors []Issue
	anchors := headingAnchors(lines)
	for idx, line := range lines {
		for _, m := range artifact.LinkRE.FindAllStringSubmatch(line, -1) {
			target := strings.TrimSpace(m[2])
			if target == "" {
				continue
			}
			if anchor, ok := strings.CutPrefix(target, "#"); ok {
				if anchor != "" && !anchors[anchor] {
					errors = append(errors, Issue{
						Type:    "link_target",
						Message: "Broken anchor link target",
						Line:    idx + 1,
						Text:    strings.TrimSpace(line),
					})
				}
				continue
			}
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				continue
			}
			if strings.HasPrefix(target, "/") {
				errors = append(errors, Issue{
					Type:    "link_format",
					Message: "Absolute link targets are not allowed",
					Line:    idx + 1,
					Text:    strings.TrimSpace(line),
				})
				continue
			}
			if skipFS || path == "" {
				continue
			}
			target, _, _ = strings.Cut(target, "#")
			if target == "" {
				continue
			}
			resolved := filepath.Join(filepath.Dir(path), target)
			if _, err := os.Stat(resolved); err != nil {
				errors = append(errors, Issue{
					Type:    "link_target",
					Message: "Broken file link target",
					Line:    idx + 1,
					Target:  target,
					Text:    strings.TrimSpace(line),
				})
			}
		}
	}
	return errors
}

// headingAnchors returns the slugified anchor set of every markdown
// heading in the document.
func headingAnchors(lines []string) map[string]bool {
	anchors := make(map[string]bool)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		title := strings.TrimLeft(trimmed, "#")
		if title == trimmed || !strings.HasPrefix(title, " ") {
			continue
		}
		if slug := Slugify(title); slug != "" {
			anchors[slug] = true
		}
	}
	return anchors
}

// idLineIssues enforces the identifier declaration rules: fdd- values must
// be backtick-wrapped (checkbox declarations are exempt), and a document
// must not declare the same fdd- ID twice.
func idLineIssues(lines []string) []Issue {
	var errors []Issue
	var idsSeen []string

	for i, line := range lines {
		if !strings.Contains(line, "**ID**:") {
			continue
		}
		m := artifact.IDLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := strings.TrimSpace(m[1])

		isCheckbox := artifact.CheckboxIDLineRE.MatchString(line)
		if strings.Contains(val, "fdd-") && !strings.Contains(val, "`") && !isCheckbox {
			errors = append(errors, Issue{
				Type:    "id",
				Message: "ID values must be wrapped in backticks",
				Line:    i + 1,
				Text:    strings.TrimSpace(line),
			})
		}

		for _, cm := range codeSpanTokens(val) {
			if strings.HasPrefix(cm, "fdd-") {
				idsSeen = append(idsSeen, cm)
			}
		}
	}

	counts := make(map[string]int)
	for _, id := range idsSeen {
		counts[id]++
	}
	var dups []string
	for id, c := range counts {
		if c > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		errors = append(errors, Issue{
			Type:    "id",
			Message: "Duplicate fdd- IDs in document",
			IDs:     dups,
		})
	}

	return errors
}

// headingSpacingIssues requires exactly one blank line between a heading
// and the identifier declaration that follows it, when one follows at all.
func headingSpacingIssues(lines []string) []Issue {
	var errors []Issue
	for i := 0; i < len(lines)-1; i++ {
		if !artifact.HeadingRE.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}

		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}

		if j < len(lines) && artifact.IDLineStartRE.MatchString(lines[j]) && j != i+2 {
			errors = append(errors, Issue{
				Type:    "id",
				Message: "Exactly one blank line is required between heading and **ID** line",
				Line:    i + 1,
				Text:    strings.TrimSpace(lines[i]),
			})
		}
	}
	return errors
}

// codeSpanTokens returns the contents of each backtick span in s.
func codeSpanTokens(s string) []string {
	var toks []string
	for _, m := range artifact.CodeSpanRE.FindAllStringSubmatch(s, -1) {
		toks = append(toks, strings.TrimSpace(m[1]))
	}
	return toks
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
