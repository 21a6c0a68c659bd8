package fdl

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/validate"
)

// featureSectionRE matches a feature-design section heading in either the
// plain or the verbose form. The verbose form itself is reported by the
// common checks; splitting still honors it so the rest of the section can
// be validated.
var featureSectionRE = regexp.MustCompile(`^##\s+(?:Section\s+)?([A-G])\s*[:.]`)

// featureSectionOrder is the mandatory prefix; G (test scenarios) may
// follow but is optional.
var featureSectionOrder = []string{"A", "B", "C", "D", "E", "F"}

// boldTokenRE pulls bold all-caps tokens for the imperative-keyword check.
var boldTokenRE = regexp.MustCompile(`\*\*([A-Z][A-Z ]*)\*\*`)

// prohibitedKeywords are imperative pseudo-code keywords banned from the
// narrative sections B and C.
var prohibitedKeywords = map[string]bool{
	"THEN": true, "SET": true, "VALIDATE": true, "CHECK": true,
	"LOAD": true, "READ": true, "WRITE": true, "CREATE": true,
	"ADD": true, "AND": true,
}

// narrativeSections are the sections subject to the code-fence and
// imperative-keyword rules.
var narrativeSections = map[string]bool{"B": true, "C": true}

type featureSection struct {
	Letter string
	Lines  []string
}

// ValidateFeature runs the full feature-design pass: structure and lexical
// rules over the document itself, then scope coverage against the change
// log, then marker reconciliation against the scanned code. The scanner may
// be nil (or opts.SkipFS set) to restrict validation to the document.
func ValidateFeature(text string, opts validate.DocOptions, scanner *Scanner) *validate.Result {
	r := &validate.Result{RequiredSectionCount: len(featureSectionOrder), Status: validate.StatusFail}

	common, placeholders := validate.CommonChecks(text, opts.Path, opts.SkipFS)
	r.Errors = append(r.Errors, common...)
	r.PlaceholderHits = placeholders

	sections := splitFeatureSections(text)
	r.Errors = append(r.Errors, featureOrderIssues(sections)...)
	for _, sec := range sections {
		r.Errors = append(r.Errors, sectionRuleIssues(sec)...)
	}

	scopes := ExtractScopes(text)

	if !opts.SkipFS && opts.Path != "" {
		changesPath := opts.ChangesPath
		if changesPath == "" {
			changesPath = artifact.SiblingPath(opts.Path, artifact.KindChanges)
		}
		changesText, loadErr := artifact.LoadText(changesPath)
		if loadErr != "" {
			r.Errors = append(r.Errors, validate.Issue{
				Type:    "fdl_coverage",
				Message: "Cannot verify FDL coverage: " + loadErr,
				Target:  changesPath,
			})
		} else {
			r.Errors = append(r.Errors, CoverageIssues(changesText, scopes)...)

			var idx *MarkerIndex
			if scanner != nil {
				root := artifact.ProjectRoot(filepath.Dir(opts.Path))
				idx = scanner.Scan(root)
				r.Errors = append(r.Errors, DesignToCode(scopes, idx)...)
				r.Errors = append(r.Errors, CodeToDesign(idx, scopes, artifact.FeatureSlug(opts.Path))...)
				if idx.SkippedFiles > 0 {
					r.Errors = append(r.Errors, validate.Issue{
						Type:    "fdl_scan_partial",
						Message: fmt.Sprintf("marker scan skipped %d unreadable file(s); results may be incomplete", idx.SkippedFiles),
						Count:   idx.SkippedFiles,
					})
				}
			}

			if status, ok := ParseStatus(changesText); ok {
				r.Errors = append(r.Errors, ReconcileStatus(status, scopes, idx)...)
			}
		}
	}

	r.Finalize()
	return r
}

func splitFeatureSections(text string) []featureSection {
	var sections []featureSection
	for _, line := range strings.Split(text, "\n") {
		if m := featureSectionRE.FindStringSubmatch(line); m != nil {
			sections = append(sections, featureSection{Letter: m[1]})
			continue
		}
		if len(sections) > 0 {
			last := &sections[len(sections)-1]
			last.Lines = append(last.Lines, line)
		}
	}
	return sections
}

func featureOrderIssues(sections []featureSection) []validate.Issue {
	if len(sections) == 0 {
		return []validate.Issue{{
			Type:    "structure",
			Message: "No feature sections found (expected '## A.' through '## F.')",
		}}
	}
	found := make([]string, len(sections))
	for i, sec := range sections {
		found[i] = sec.Letter
	}
	ok := len(found) >= len(featureSectionOrder)
	if ok {
		for i, want := range featureSectionOrder {
			if found[i] != want {
				ok = false
				break
			}
		}
	}
	if ok {
		return nil
	}
	return []validate.Issue{{
		Type:          "structure",
		Message:       "Feature sections out of order or missing",
		RequiredOrder: featureSectionOrder,
		FoundOrder:    found,
	}}
}

// sectionRuleIssues applies the lexical rules to one section. Line numbers
// are relative to the section heading.
func sectionRuleIssues(sec featureSection) []validate.Issue {
	var issues []validate.Issue
	narrative := narrativeSections[sec.Letter]
	inFence := false

	for i, line := range sec.Lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if narrative && !inFence {
				issues = append(issues, validate.Issue{
					Type:    "fdl",
					Message: "Code blocks are not allowed in Section " + sec.Letter,
					Section: sec.Letter,
					Line:    lineNo,
					Text:    trimmed,
				})
			}
			inFence = !inFence
			continue
		}
		if inFence || !narrative {
			continue
		}

		if strings.Contains(line, "**WHEN**") {
			issues = append(issues, validate.Issue{
				Type:    "fdl",
				Message: "**WHEN** is only allowed in state machines (Section D)",
				Section: sec.Letter,
				Line:    lineNo,
				Text:    trimmed,
			})
		}
		for _, m := range boldTokenRE.FindAllStringSubmatch(line, -1) {
			tok := strings.TrimSpace(m[1])
			if tok == "WHEN" || !prohibitedKeywords[tok] {
				continue
			}
			issues = append(issues, validate.Issue{
				Type:    "fdl",
				Message: "Imperative keyword **" + tok + "** is not allowed in Section " + sec.Letter,
				Section: sec.Letter,
				Line:    lineNo,
				Text:    trimmed,
			})
		}
	}
	return issues
}
