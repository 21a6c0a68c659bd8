package validate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
)

// RequirementBlock is one requirement and every reference found between its
// declaration line and the next requirement declaration. Blocks are derived
// during a validation call and not stored.
type RequirementBlock struct {
	ID       string
	Caps     map[string]bool
	Actors   map[string]bool
	UseCases map[string]bool
	ADRRefs  map[string]bool
}

// designRequiredSections are the top-level sections DESIGN.md must carry.
var designRequiredSections = []string{"A", "B", "C"}

// designSubsections is the exact C.1..C.5 sub-section sequence.
var designSubsections = []string{"1", "2", "3", "4", "5"}

// ValidateDesign validates the architecture design document: top-level and
// C.* section structure, requirement traceability against the business
// model and the decision index, and orphan detection in both directions.
func ValidateDesign(text string, opts DocOptions) *Result {
	r := &Result{
		RequiredSectionCount: len(designRequiredSections),
		MissingSections:      []MissingSection{},
		PlaceholderHits:      FindPlaceholders(text),
	}

	present := PresentSectionIDs(text)
	presentSet := make(map[string]bool, len(present))
	for _, sid := range present {
		presentSet[sid] = true
	}
	var missing []string
	for _, sid := range designRequiredSections {
		if !presentSet[sid] {
			missing = append(missing, sid)
			r.MissingSections = append(r.MissingSections, MissingSection{ID: sid})
		}
	}
	if len(missing) > 0 {
		r.Errors = append(r.Errors, Issue{
			Type:    "structure",
			Message: "Missing required top-level sections",
			Missing: missing,
		})
	}

	var subs []string
	for _, m := range artifact.DesignSubsectionRE.FindAllStringSubmatch(text, -1) {
		subs = append(subs, m[1])
	}
	if len(subs) > 0 && !equalStrings(subs, designSubsections) {
		r.Errors = append(r.Errors, Issue{
			Type:       "structure",
			Message:    "Section C must have exactly C.1..C.5 in order",
			FoundOrder: subs,
		})
	}

	var bm *BusinessModel
	var adrIndex *ADRIndex

	if !opts.SkipFS && opts.Path != "" {
		bp := opts.BusinessPath
		if bp == "" {
			bp = artifact.SiblingPath(opts.Path, artifact.KindBusiness)
		}
		ap := opts.ADRPath
		if ap == "" {
			ap = artifact.SiblingPath(opts.Path, artifact.KindADR)
		}

		if bt, loadErr := artifact.LoadText(bp); loadErr != "" {
			r.Errors = append(r.Errors, Issue{Type: "cross", Message: loadErr})
		} else {
			bm = ParseBusinessModel(bt)
		}

		if at, loadErr := artifact.LoadText(ap); loadErr != "" {
			r.Errors = append(r.Errors, Issue{Type: "cross", Message: loadErr})
		} else {
			var issues []Issue
			adrIndex, issues = ParseADRIndex(at)
			r.Errors = append(r.Errors, issues...)
		}
	}

	blocks := RequirementBlocks(text, adrIndex)
	r.RequirementCount = len(blocks)
	r.RequirementIssues = traceabilityIssues(blocks, bm, adrIndex)
	r.Errors = append(r.Errors, orphanIssues(text, blocks, bm, adrIndex)...)

	errs, holders := CommonChecks(text, opts.Path, opts.SkipFS)
	r.Errors = append(r.Errors, errs...)
	r.PlaceholderHits = append(r.PlaceholderHits, holders...)

	return r.Finalize()
}

// RequirementBlocks locates every requirement declaration line and collects
// the references between it and the next declaration (or document end).
// Decision references count in both their typed identifier form and as bare
// sequence numbers resolved through the decision index.
func RequirementBlocks(text string, adrIndex *ADRIndex) []RequirementBlock {
	lines := strings.Split(text, "\n")

	var starts []int
	for i, line := range lines {
		if strings.Contains(line, "**ID**:") && artifact.RequirementIDRE.MatchString(line) {
			starts = append(starts, i)
		}
	}

	var blocks []RequirementBlock
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blockText := strings.Join(lines[start:end], "\n")

		reqIDs := artifact.RequirementIDRE.FindAllString(lines[start], 1)
		if len(reqIDs) == 0 {
			continue
		}

		block := RequirementBlock{
			ID:       reqIDs[0],
			Caps:     artifact.ExtractSet(blockText, artifact.IDCapability),
			Actors:   artifact.ExtractSet(blockText, artifact.IDActor),
			UseCases: artifact.ExtractSet(blockText, artifact.IDUseCase),
			ADRRefs:  make(map[string]bool),
		}
		for _, id := range artifact.Extract(blockText, artifact.IDDecision) {
			block.ADRRefs[id] = true
		}
		if adrIndex != nil {
			for _, m := range artifact.ADRNumRE.FindAllStringSubmatch(blockText, -1) {
				n, _ := strconv.Atoi(m[1])
				if mapped, ok := adrIndex.NumToID[n]; ok {
					block.ADRRefs[mapped] = true
				}
			}
		}
		blocks = append(blocks, block)
	}

	return blocks
}

// traceabilityIssues applies the per-requirement rules. Each rule reports
// independently — a single requirement can accumulate several issues.
func traceabilityIssues(blocks []RequirementBlock, bm *BusinessModel, adrIndex *ADRIndex) []Issue {
	var issues []Issue

	if len(blocks) == 0 {
		issues = append(issues, Issue{Message: "No functional requirement IDs found"})
		return issues
	}

	for _, rb := range blocks {
		if len(rb.Caps) == 0 {
			issues = append(issues, Issue{Requirement: rb.ID, Message: "Missing capability references"})
		}
		if len(rb.Actors) == 0 {
			issues = append(issues, Issue{Requirement: rb.ID, Message: "Missing actor references"})
		}

		if bm != nil && len(bm.Actors) > 0 {
			if bad := unknownIDs(rb.Actors, bm.Actors); len(bad) > 0 {
				issues = append(issues, Issue{Requirement: rb.ID, Message: "Unknown actor IDs", IDs: bad})
			}
		}

		if bm.HasCapabilities() {
			var bad []string
			for cap := range rb.Caps {
				if _, ok := bm.CapabilityToActors[cap]; !ok {
					bad = append(bad, cap)
				}
			}
			if len(bad) > 0 {
				sort.Strings(bad)
				issues = append(issues, Issue{Requirement: rb.ID, Message: "Unknown capability IDs", IDs: bad})
			}

			allowed := make(map[string]bool)
			for cap := range rb.Caps {
				for actor := range bm.CapabilityToActors[cap] {
					allowed[actor] = true
				}
			}
			if len(allowed) > 0 && len(rb.Actors) > 0 && len(unknownIDs(rb.Actors, allowed)) > 0 {
				issues = append(issues, Issue{
					Requirement: rb.ID,
					Message:     "Actors must match actors of referenced capabilities",
					Actors:      sortedKeys(rb.Actors),
					Allowed:     sortedKeys(allowed),
				})
			}
		}

		if bm != nil && len(bm.UseCases) > 0 && len(rb.UseCases) > 0 {
			if bad := unknownIDs(rb.UseCases, bm.UseCases); len(bad) > 0 {
				issues = append(issues, Issue{Requirement: rb.ID, Message: "Unknown use case IDs", IDs: bad})
			}
		}

		if adrIndex != nil && len(adrIndex.IDs) > 0 && len(rb.ADRRefs) > 0 {
			if bad := unknownIDs(rb.ADRRefs, adrIndex.IDs); len(bad) > 0 {
				issues = append(issues, Issue{Requirement: rb.ID, Message: "Unknown ADR references", IDs: bad})
			}
		}
	}

	return issues
}

// orphanIssues detects business-model capabilities and use cases never
// referenced by any requirement, and decision records never referenced
// anywhere in the design document.
func orphanIssues(text string, blocks []RequirementBlock, bm *BusinessModel, adrIndex *ADRIndex) []Issue {
	var issues []Issue

	capCovered := make(map[string]bool)
	ucCovered := make(map[string]bool)
	for _, rb := range blocks {
		for cap := range rb.Caps {
			capCovered[cap] = true
		}
		for uc := range rb.UseCases {
			ucCovered[uc] = true
		}
	}

	if bm.HasCapabilities() {
		var orphans []string
		for cap := range bm.CapabilityToActors {
			if !capCovered[cap] {
				orphans = append(orphans, cap)
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			issues = append(issues, Issue{
				Type:    "traceability",
				Message: "Orphaned capabilities (not referenced in DESIGN.md requirements)",
				IDs:     orphans,
			})
		}
	}

	if bm != nil && len(bm.UseCases) > 0 {
		var orphans []string
		for uc := range bm.UseCases {
			if !ucCovered[uc] {
				orphans = append(orphans, uc)
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			issues = append(issues, Issue{
				Type:    "traceability",
				Message: "Orphaned use cases (not referenced in DESIGN.md requirements)",
				IDs:     orphans,
			})
		}
	}

	// Decision coverage counts references anywhere in the document, not
	// just inside requirement blocks: principles, constraints, and NFRs
	// may legitimately cite a decision.
	if adrIndex != nil && len(adrIndex.IDs) > 0 {
		covered := artifact.ExtractSet(text, artifact.IDDecision)
		for _, m := range artifact.ADRNumRE.FindAllStringSubmatch(text, -1) {
			n, _ := strconv.Atoi(m[1])
			if mapped, ok := adrIndex.NumToID[n]; ok {
				covered[mapped] = true
			}
		}
		var orphans []string
		for id := range adrIndex.IDs {
			if !covered[id] {
				orphans = append(orphans, id)
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			issues = append(issues, Issue{
				Type:    "traceability",
				Message: "Orphaned ADRs (not referenced in DESIGN.md)",
				IDs:     orphans,
			})
		}
	}

	return issues
}

// unknownIDs returns the members of found absent from known, sorted.
func unknownIDs(found, known map[string]bool) []string {
	var bad []string
	for id := range found {
		if !known[id] {
			bad = append(bad, id)
		}
	}
	sort.Strings(bad)
	return bad
}

// sortedKeys returns a set's members in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
