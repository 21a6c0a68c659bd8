package artifact

import (
	"regexp"
	"strings"
)

// IDKind names one typed identifier family from the FDD conventions.
type IDKind string

const (
	IDActor       IDKind = "actor"
	IDCapability  IDKind = "capability"
	IDUseCase     IDKind = "use-case"
	IDRequirement IDKind = "requirement"
	IDPrinciple   IDKind = "principle"
	IDDecision    IDKind = "decision-record"
	IDScope       IDKind = "scope"
	IDInstruction IDKind = "instruction"
)

// Recognition patterns for each identifier family. All document IDs carry
// the fixed fdd- prefix followed by a project segment; instructions use the
// standalone inst- prefix.
var (
	ActorIDRE       = regexp.MustCompile(`\bfdd-[a-z0-9-]+-actor-[a-z0-9-]+\b`)
	CapabilityIDRE  = regexp.MustCompile(`\bfdd-[a-z0-9-]+-cap-[a-z0-9-]+\b`)
	UseCaseIDRE     = regexp.MustCompile(`\bfdd-[a-z0-9-]+-uc-[a-z0-9-]+\b`)
	RequirementIDRE = regexp.MustCompile(`\bfdd-[a-z0-9-]+-req-[a-z0-9-]+\b`)
	PrincipleIDRE   = regexp.MustCompile(`\bfdd-[a-z0-9-]+-principle-[a-z0-9-]+\b`)
	DecisionIDRE    = regexp.MustCompile(`\bfdd-[a-z0-9-]+-adr-[a-z0-9-]+\b`)
	ScopeIDRE       = regexp.MustCompile(`\bfdd-[a-z0-9-]+-(?:flow|algo|state|test)-[a-z0-9-]+\b`)
	InstructionIDRE = regexp.MustCompile(`\binst-[a-z0-9-]+\b`)
)

// patterns maps each identifier family to its recognition pattern.
var patterns = map[IDKind]*regexp.Regexp{
	IDActor:       ActorIDRE,
	IDCapability:  CapabilityIDRE,
	IDUseCase:     UseCaseIDRE,
	IDRequirement: RequirementIDRE,
	IDPrinciple:   PrincipleIDRE,
	IDDecision:    DecisionIDRE,
	IDScope:       ScopeIDRE,
	IDInstruction: InstructionIDRE,
}

// Pattern returns the recognition pattern for a kind, or nil for an
// unknown kind.
func Pattern(kind IDKind) *regexp.Regexp {
	return patterns[kind]
}

// Extract returns every identifier of the given kind found in text, in
// document order. On lines where the identifier appears inside an inline
// code span, only the backticked occurrences are reported — bare matches on
// the same line are dropped, which keeps IDs quoted in prose or examples
// from polluting the result. Extraction has no side effects and is
// idempotent.
func Extract(text string, kind IDKind) []string {
	re := patterns[kind]
	if re == nil {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, ExtractLine(line, re)...)
	}
	return out
}

// ExtractLine extracts identifiers matching re from a single line,
// preferring occurrences inside backtick code spans.
func ExtractLine(line string, re *regexp.Regexp) []string {
	var ids []string
	for _, m := range CodeSpanRE.FindAllStringSubmatch(line, -1) {
		tok := strings.TrimSpace(m[1])
		for _, id := range re.FindAllString(tok, -1) {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	return re.FindAllString(line, -1)
}

// ExtractSet is Extract with set semantics: document order is discarded and
// each identifier appears once.
func ExtractSet(text string, kind IDKind) map[string]bool {
	set := make(map[string]bool)
	for _, id := range Extract(text, kind) {
		set[id] = true
	}
	return set
}
