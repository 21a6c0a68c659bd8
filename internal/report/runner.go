// Package report dispatches validation per artifact kind, aggregates the
// results of a whole feature directory, and renders reports for humans
// (markdown) and tooling (JSON).
package report

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/config"
	"github.com/fddtools/fddcheck/internal/fdl"
	"github.com/fddtools/fddcheck/internal/validate"
)

// defaultBusinessSchema is the built-in required-sections schema for
// BUSINESS.md, used when the project does not supply its own.
//
//go:embed business_requirements.md
var defaultBusinessSchema string

// Runner validates artifacts according to their kind. The zero value
// validates with default configuration and full filesystem access.
type Runner struct {
	// Cfg tunes the code-marker scanner; nil means defaults.
	Cfg *config.Config

	// SchemaPath overrides the built-in BUSINESS.md required-sections
	// schema.
	SchemaPath string

	// SkipFS suppresses sibling loading, link resolution, and the
	// marker scan.
	SkipFS bool
}

// ArtifactReport pairs one artifact with its validation result.
type ArtifactReport struct {
	Kind   artifact.Kind    `json:"kind"`
	Path   string           `json:"path"`
	Result *validate.Result `json:"result"`
}

// FeatureReport is the aggregate outcome for a feature directory.
type FeatureReport struct {
	Feature   string           `json:"feature"`
	Artifacts []ArtifactReport `json:"artifacts"`
	Status    string           `json:"status"`
}

// ValidateArtifact reads and validates one artifact. An unreadable artifact
// the caller explicitly named is a hard error; everything else accumulates
// into the result.
func (r *Runner) ValidateArtifact(kind artifact.Kind, path string) (*validate.Result, error) {
	if err := artifact.ValidateKind(kind); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return r.ValidateText(kind, string(data), path)
}

// ValidateText validates artifact text already in memory. Path may be empty
// only when the runner skips filesystem access.
func (r *Runner) ValidateText(kind artifact.Kind, text, path string) (*validate.Result, error) {
	opts := validate.DocOptions{Path: path, SkipFS: r.SkipFS}

	switch kind {
	case artifact.KindBusiness:
		schema, schemaPath, err := r.businessSchema()
		if err != nil {
			return nil, err
		}
		return validate.ValidateBusiness(text, schema, schemaPath, opts), nil
	case artifact.KindDesign:
		return validate.ValidateDesign(text, opts), nil
	case artifact.KindADR:
		return validate.ValidateADR(text, opts), nil
	case artifact.KindFeature:
		return fdl.ValidateFeature(text, opts, r.scanner()), nil
	case artifact.KindChanges:
		return r.validateChanges(text, opts), nil
	}
	return nil, fmt.Errorf("invalid artifact kind %q", kind)
}

// ValidateFeatureDir validates every artifact belonging to a feature:
// the architecture documents at the project root plus the feature design
// and its change log. The overall status is PASS iff every present
// artifact passes.
func (r *Runner) ValidateFeatureDir(featureDir string) (*FeatureReport, error) {
	designPath := filepath.Join(featureDir, artifact.KindFeature.FileName())
	slug := artifact.FeatureSlug(designPath)
	if slug == "" {
		return nil, fmt.Errorf("not a feature directory (expected feature-<slug>): %s", featureDir)
	}

	archDir := filepath.Join(artifact.ProjectRoot(featureDir), "architecture")
	targets := []struct {
		kind artifact.Kind
		path string
	}{
		{artifact.KindBusiness, filepath.Join(archDir, artifact.KindBusiness.FileName())},
		{artifact.KindDesign, filepath.Join(archDir, artifact.KindDesign.FileName())},
		{artifact.KindADR, filepath.Join(archDir, artifact.KindADR.FileName())},
		{artifact.KindFeature, designPath},
		{artifact.KindChanges, filepath.Join(featureDir, artifact.KindChanges.FileName())},
	}

	report := &FeatureReport{Feature: slug, Status: validate.StatusPass}
	for _, tgt := range targets {
		res, err := r.ValidateArtifact(tgt.kind, tgt.path)
		if err != nil {
			// A missing architecture document is an artifact-level
			// failure, not an abort: the feature can still be checked.
			res = (&validate.Result{
				MissingSections: []validate.MissingSection{},
				Errors:          []validate.Issue{{Type: "cross", Message: err.Error()}},
			}).Finalize()
		}
		report.Artifacts = append(report.Artifacts, ArtifactReport{Kind: tgt.kind, Path: tgt.path, Result: res})
		if res.Status != validate.StatusPass {
			report.Status = validate.StatusFail
		}
	}
	return report, nil
}

// validateChanges checks a change log: the common format rules plus the
// presence of a recognized Status line.
func (r *Runner) validateChanges(text string, opts validate.DocOptions) *validate.Result {
	res := &validate.Result{
		MissingSections: []validate.MissingSection{},
		PlaceholderHits: validate.FindPlaceholders(text),
	}

	errs, holders := validate.CommonChecks(text, opts.Path, opts.SkipFS)
	res.Errors = append(res.Errors, errs...)
	res.PlaceholderHits = append(res.PlaceholderHits, holders...)

	if _, ok := fdl.ParseStatus(text); !ok {
		res.Errors = append(res.Errors, validate.Issue{
			Type:    "structure",
			Message: "Missing or invalid **Status** line (expected one of ⏳ NOT_STARTED, 🔄 IN_PROGRESS, ✨ IMPLEMENTED, ✅ COMPLETED)",
		})
	}

	return res.Finalize()
}

func (r *Runner) businessSchema() (*validate.Schema, string, error) {
	if r.SchemaPath != "" {
		schema, err := validate.LoadSchema(r.SchemaPath)
		if err != nil {
			return nil, "", fmt.Errorf("loading requirements schema: %w", err)
		}
		return schema, r.SchemaPath, nil
	}
	return validate.ParseSchema(defaultBusinessSchema), "builtin:business", nil
}

func (r *Runner) scanner() *fdl.Scanner {
	s := fdl.NewScanner()
	if r.Cfg == nil {
		return s
	}
	if len(r.Cfg.Scan.Extensions) > 0 {
		s.Extensions = make(map[string]bool, len(r.Cfg.Scan.Extensions))
		for _, ext := range r.Cfg.Scan.Extensions {
			s.Extensions[strings.ToLower(ext)] = true
		}
	}
	if len(r.Cfg.Scan.ExcludeDirs) > 0 {
		s.ExcludeDirs = make(map[string]bool, len(r.Cfg.Scan.ExcludeDirs))
		for _, dir := range r.Cfg.Scan.ExcludeDirs {
			s.ExcludeDirs[dir] = true
		}
	}
	s.ExcludeGlobs = r.Cfg.Scan.ExcludeGlobs
	return s
}
