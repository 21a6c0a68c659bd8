package fdl

import (
	"testing"
)

func indexWith(records map[string]*MarkerRecord) *MarkerIndex {
	return &MarkerIndex{Records: records}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"completed", "**Status**: ✅ COMPLETED", StatusCompleted, true},
		{"in progress", "**Status**: 🔄 IN_PROGRESS", StatusInProgress, true},
		{"implemented", "**Status**: ✨ IMPLEMENTED", StatusImplemented, true},
		{"not started", "**Status**: ⏳ NOT_STARTED", StatusNotStarted, true},
		{"absent", "# Changes\n\nNothing here.", "", false},
		{"wrong emoji", "**Status**: ✅ IN_PROGRESS", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStatus(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseStatus() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDesignToCode(t *testing.T) {
	scopes := []Scope{{
		ID: "fdd-shop-flow-checkout",
		Steps: []Instruction{
			{ID: "inst-ok", Done: true},
			{ID: "inst-no-markers", Done: true},
			{ID: "inst-half", Done: true},
			{ID: "inst-unchecked", Done: false},
		},
	}}
	idx := indexWith(map[string]*MarkerRecord{
		"inst-ok":   {HasBegin: true, HasEnd: true},
		"inst-half": {HasBegin: true},
	})

	issues := DesignToCode(scopes, idx)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
	if issues[0].Type != "fdl_code_missing" || issues[0].Count != 1 {
		t.Errorf("missing issue = %+v", issues[0])
	}
	if issues[1].Type != "fdl_code_incomplete" {
		t.Errorf("incomplete issue = %+v", issues[1])
	}
	if got := issues[1].Examples[0].Reason; got != "missing fdd-end tag" {
		t.Errorf("reason = %q", got)
	}
}

func TestCodeToDesignFiltersByFeature(t *testing.T) {
	idx := indexWith(map[string]*MarkerRecord{
		"inst-mine": {HasBegin: true, HasEnd: true,
			Scopes: map[string]bool{"fdd-shop-feature-checkout-flow-main": true}},
		"inst-other": {HasBegin: true, HasEnd: true,
			Scopes: map[string]bool{"fdd-shop-feature-billing-flow-main": true}},
	})
	issues := CodeToDesign(idx, nil, "checkout")
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Type != "fdl_untracked_implementation" {
		t.Errorf("type = %q", issues[0].Type)
	}
	if len(issues[0].IDs) != 1 || issues[0].IDs[0] != "inst-mine" {
		t.Errorf("ids = %v", issues[0].IDs)
	}
}

func TestReconcileStatusCompleted(t *testing.T) {
	scopes := []Scope{{
		ID:    "fdd-shop-flow-checkout",
		Steps: []Instruction{{ID: "inst-a", Done: true}, {ID: "inst-b", Done: false}},
	}}
	issues := ReconcileStatus(StatusCompleted, scopes, nil)
	if len(issues) != 1 || issues[0].Type != "premature_completion" {
		t.Fatalf("issues = %+v", issues)
	}
	if issues[0].Count != 1 {
		t.Errorf("count = %d", issues[0].Count)
	}

	scopes[0].Steps[1].Done = true
	if issues := ReconcileStatus(StatusCompleted, scopes, nil); len(issues) != 0 {
		t.Errorf("expected clean result, got %+v", issues)
	}
}

func TestReconcileStatusImplemented(t *testing.T) {
	scopes := []Scope{{
		ID:    "fdd-shop-flow-checkout",
		Steps: []Instruction{{ID: "inst-a", Done: true}},
	}}
	issues := ReconcileStatus(StatusImplemented, scopes, indexWith(map[string]*MarkerRecord{}))
	if len(issues) != 1 || issues[0].Type != "fdl_implemented_incomplete" {
		t.Fatalf("issues = %+v", issues)
	}
	// NOT_STARTED and IN_PROGRESS never reconcile.
	if issues := ReconcileStatus(StatusInProgress, scopes, nil); len(issues) != 0 {
		t.Errorf("unexpected issues for IN_PROGRESS: %+v", issues)
	}
}
