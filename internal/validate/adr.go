package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
)

// ADREntry is one parsed decision record from the decision log.
type ADREntry struct {
	Ref    string `json:"ref"` // "ADR-0001"
	Num    int    `json:"num"`
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	Status string `json:"status,omitempty"`
	ID     string `json:"id,omitempty"` // linked fdd-…-adr-… identifier
}

// ADRIndex holds the parsed decision log: the ordered entries, the set of
// linked identifiers, and the sequence-number → identifier mapping used to
// resolve bare ADR-NNNN references.
type ADRIndex struct {
	Entries []ADREntry
	IDs     map[string]bool
	NumToID map[int]string
}

// metadataLookahead bounds how many lines after a decision heading are
// searched for date, status, and linked identifier.
const metadataLookahead = 10

// ParseADRIndex parses the decision log into an ordered entry list.
// Entries are independent: missing metadata on one never blocks later
// entries. A reference declared twice violates the one-entry-per-reference
// invariant and is reported as an issue.
func ParseADRIndex(text string) (*ADRIndex, []Issue) {
	idx := &ADRIndex{IDs: make(map[string]bool), NumToID: make(map[int]string)}
	var issues []Issue

	lines := strings.Split(text, "\n")
	seenRefs := make(map[string]bool)

	for i, line := range lines {
		m := artifact.ADRHeadingRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ref := m[1]
		num, _ := strconv.Atoi(m[2])
		entry := ADREntry{Ref: ref, Num: num, Title: strings.TrimSpace(m[3])}

		if seenRefs[ref] {
			issues = append(issues, Issue{
				Type:    "structure",
				Message: fmt.Sprintf("Duplicate ADR reference %s", ref),
				ADR:     ref,
			})
		}
		seenRefs[ref] = true

		for j := i + 1; j < len(lines) && j <= i+metadataLookahead; j++ {
			next := lines[j]
			if strings.HasPrefix(strings.TrimSpace(next), "## ") {
				break
			}
			if dm := artifact.ADRDateRE.FindStringSubmatch(next); dm != nil {
				entry.Date = dm[1]
			}
			if sm := artifact.ADRStatusRE.FindStringSubmatch(next); sm != nil {
				entry.Status = sm[1]
			}
			if ids := artifact.DecisionIDRE.FindAllString(next, -1); len(ids) > 0 && entry.ID == "" {
				entry.ID = ids[0]
			}
		}

		idx.Entries = append(idx.Entries, entry)
		if entry.ID != "" {
			idx.IDs[entry.ID] = true
			idx.NumToID[entry.Num] = entry.ID
		}
	}

	return idx, issues
}

// requiredADRSections are the five canonical sub-sections every decision
// record body must contain.
var requiredADRSections = []string{
	"### Context and Problem Statement",
	"### Decision Drivers",
	"### Considered Options",
	"### Decision Outcome",
	"### Related Design Elements",
}

// crossRefs holds the identifier sets loaded from sibling documents for
// referential checks. Nil sets mean the sibling was unavailable and the
// corresponding checks are skipped, not failed.
type crossRefs struct {
	businessActors   map[string]bool
	businessCaps     map[string]bool
	designReqs       map[string]bool
	designPrinciples map[string]bool
}

// ValidateADR validates the decision log: per-entry metadata and body
// structure, and — when sibling documents are loadable — referential
// integrity of the related design elements.
func ValidateADR(text string, opts DocOptions) *Result {
	r := &Result{
		RequiredSectionCount: len(requiredADRSections),
		MissingSections:      []MissingSection{},
		PlaceholderHits:      FindPlaceholders(text),
	}

	idx, issues := ParseADRIndex(text)
	r.Errors = append(r.Errors, issues...)
	r.ADRCount = len(idx.Entries)

	refs := crossRefs{}
	if !opts.SkipFS && opts.Path != "" {
		bp := opts.BusinessPath
		if bp == "" {
			bp = artifact.SiblingPath(opts.Path, artifact.KindBusiness)
		}
		dp := opts.DesignPath
		if dp == "" {
			dp = artifact.SiblingPath(opts.Path, artifact.KindDesign)
		}

		if bt, loadErr := artifact.LoadText(bp); loadErr != "" {
			r.Errors = append(r.Errors, Issue{Type: "cross", Message: loadErr})
		} else {
			refs.businessActors = artifact.ExtractSet(bt, artifact.IDActor)
			refs.businessCaps = artifact.ExtractSet(bt, artifact.IDCapability)
		}

		if dt, loadErr := artifact.LoadText(dp); loadErr != "" {
			r.Errors = append(r.Errors, Issue{Type: "cross", Message: loadErr})
		} else {
			refs.designReqs = artifact.ExtractSet(dt, artifact.IDRequirement)
			refs.designPrinciples = artifact.ExtractSet(dt, artifact.IDPrinciple)
		}
	}

	r.ADRIssues = append(r.ADRIssues, adrBodyIssues(text, refs)...)

	errs, holders := CommonChecks(text, opts.Path, opts.SkipFS)
	r.Errors = append(r.Errors, errs...)
	r.PlaceholderHits = append(r.PlaceholderHits, holders...)

	return r.Finalize()
}

// adrBodyIssues groups the lines under each decision heading into a body
// block and validates the body: metadata presence, the five canonical
// sub-sections, and the related-elements cross-references.
func adrBodyIssues(text string, refs crossRefs) []Issue {
	var issues []Issue

	currentADR := ""
	var currentBlock []string

	flush := func() {
		if currentADR == "" {
			return
		}
		blockText := strings.Join(currentBlock, "\n")

		if !artifact.ADRDateRE.MatchString(blockText) {
			issues = append(issues, Issue{ADR: currentADR, Message: "Missing **Date**: YYYY-MM-DD"})
		}
		if !artifact.ADRStatusRE.MatchString(blockText) {
			issues = append(issues, Issue{ADR: currentADR, Message: "Missing or invalid **Status**"})
		}

		for _, sec := range requiredADRSections {
			if !strings.Contains(blockText, sec) {
				issues = append(issues, Issue{ADR: currentADR, Message: "Missing section: " + sec})
			}
		}

		if _, related, found := strings.Cut(blockText, "### Related Design Elements"); found {
			issues = append(issues, relatedElementIssues(currentADR, related, refs)...)
		}

		currentADR = ""
		currentBlock = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := artifact.ADRHeadingRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			currentADR = m[1]
			continue
		}
		if currentADR != "" {
			currentBlock = append(currentBlock, line)
		}
	}
	flush()

	return issues
}

// relatedElementIssues validates the "Related Design Elements" sub-section:
// it must reference at least one identifier, and every referenced identifier
// must exist in the corresponding sibling document when that document was
// loadable.
func relatedElementIssues(adr, related string, refs crossRefs) []Issue {
	var issues []Issue

	actors := artifact.Extract(related, artifact.IDActor)
	caps := artifact.Extract(related, artifact.IDCapability)
	reqs := artifact.Extract(related, artifact.IDRequirement)
	principles := artifact.Extract(related, artifact.IDPrinciple)

	if len(actors)+len(caps)+len(reqs)+len(principles) == 0 {
		issues = append(issues, Issue{ADR: adr, Message: "Related Design Elements must contain at least one ID"})
	}

	checks := []struct {
		known map[string]bool
		found []string
		msg   string
	}{
		{refs.businessActors, actors, "Unknown actor IDs in Related Design Elements"},
		{refs.businessCaps, caps, "Unknown capability IDs in Related Design Elements"},
		{refs.designReqs, reqs, "Unknown requirement IDs in Related Design Elements"},
		{refs.designPrinciples, principles, "Unknown principle IDs in Related Design Elements"},
	}
	for _, c := range checks {
		if len(c.known) == 0 {
			continue
		}
		var bad []string
		for _, id := range c.found {
			if !c.known[id] {
				bad = append(bad, id)
			}
		}
		if len(bad) > 0 {
			sort.Strings(bad)
			issues = append(issues, Issue{ADR: adr, Message: c.msg, IDs: dedup(bad)})
		}
	}

	return issues
}

// dedup removes adjacent duplicates from a sorted slice.
func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
