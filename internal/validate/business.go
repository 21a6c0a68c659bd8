package validate

import (
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
)

// BusinessModel is the cross-reference source built from BUSINESS.md:
// the declared actors, each capability's permitted actors, and the use
// cases. It lives for one validation run and is never persisted.
type BusinessModel struct {
	Actors             map[string]bool
	CapabilityToActors map[string]map[string]bool
	UseCases           map[string]bool
}

// ParseBusinessModel extracts the business model from document text.
//
// Actor and use-case sets come from the whole document. The capability →
// permitted-actors mapping is scoped to the capability section: every actor
// mentioned after a capability ID and before the next one is permitted for
// that capability.
func ParseBusinessModel(text string) *BusinessModel {
	bm := &BusinessModel{
		Actors:             artifact.ExtractSet(text, artifact.IDActor),
		CapabilityToActors: make(map[string]map[string]bool),
		UseCases:           artifact.ExtractSet(text, artifact.IDUseCase),
	}

	inCapabilities := false
	currentCap := ""

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "## C. Capabilities") || strings.Contains(line, "## Section C") {
			inCapabilities = true
			continue
		}
		if inCapabilities && strings.HasPrefix(strings.TrimSpace(line), "## ") {
			inCapabilities = false
		}
		if !inCapabilities {
			continue
		}

		if caps := artifact.CapabilityIDRE.FindAllString(line, -1); len(caps) > 0 {
			currentCap = caps[0]
			if bm.CapabilityToActors[currentCap] == nil {
				bm.CapabilityToActors[currentCap] = make(map[string]bool)
			}
		}

		if currentCap != "" {
			for _, actor := range artifact.ActorIDRE.FindAllString(line, -1) {
				bm.CapabilityToActors[currentCap][actor] = true
			}
		}
	}

	return bm
}

// HasCapabilities reports whether any capability was declared, which gates
// the capability-dependent traceability rules.
func (bm *BusinessModel) HasCapabilities() bool {
	return bm != nil && len(bm.CapabilityToActors) > 0
}

// ValidateBusiness validates BUSINESS.md: required-section structure from
// the schema plus the common format checks.
func ValidateBusiness(text string, schema *Schema, schemaPath string, opts DocOptions) *Result {
	r := ValidateGeneric(text, schema, schemaPath)

	errs, holders := CommonChecks(text, opts.Path, opts.SkipFS)
	r.Errors = append(r.Errors, errs...)
	r.PlaceholderHits = append(r.PlaceholderHits, holders...)

	return r.Finalize()
}
