package artifact

import (
	"reflect"
	"testing"
)

func TestExtract_OrderAndKinds(t *testing.T) {
	text := "Actors: `fdd-shop-actor-admin` and fdd-shop-actor-clerk\n" +
		"Capability: `fdd-shop-cap-checkout`\n" +
		"Requirement fdd-shop-req-fast-checkout covers `fdd-shop-uc-buy`\n"

	tests := []struct {
		name string
		kind IDKind
		want []string
	}{
		{"actors prefer backticked on mixed line", IDActor, []string{"fdd-shop-actor-admin"}},
		{"capabilities", IDCapability, []string{"fdd-shop-cap-checkout"}},
		{"bare requirement still found", IDRequirement, []string{"fdd-shop-req-fast-checkout"}},
		{"use cases", IDUseCase, []string{"fdd-shop-uc-buy"}},
		{"no principles", IDPrinciple, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(text, tt.kind)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestExtract_PreservesDocumentOrder(t *testing.T) {
	text := "`fdd-a-actor-z`\n`fdd-a-actor-b`\n`fdd-a-actor-m`\n"
	want := []string{"fdd-a-actor-z", "fdd-a-actor-b", "fdd-a-actor-m"}

	got := Extract(text, IDActor)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract order = %v, want %v", got, want)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "fdd-a-cap-one\n`fdd-a-cap-two`\n"
	first := Extract(text, IDCapability)

	rejoined := ""
	for _, id := range first {
		rejoined += id + "\n"
	}
	second := Extract(rejoined, IDCapability)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-extraction changed result: first %v, second %v", first, second)
	}
}

func TestExtract_UnknownKind(t *testing.T) {
	if got := Extract("fdd-a-actor-b", IDKind("bogus")); got != nil {
		t.Errorf("Extract(unknown kind) = %v, want nil", got)
	}
}

func TestExtractSet(t *testing.T) {
	text := "`fdd-a-uc-buy` and again fdd-a-uc-sell\n`fdd-a-uc-buy`\n"
	got := ExtractSet(text, IDUseCase)

	want := map[string]bool{"fdd-a-uc-buy": true, "fdd-a-uc-sell": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSet = %v, want %v", got, want)
	}
}

func TestScopeAndInstructionPatterns(t *testing.T) {
	tests := []struct {
		name  string
		kind  IDKind
		input string
		want  []string
	}{
		{"flow scope", IDScope, "`fdd-shop-feature-cart-flow-add-item`", []string{"fdd-shop-feature-cart-flow-add-item"}},
		{"algo scope", IDScope, "fdd-shop-feature-cart-algo-total", []string{"fdd-shop-feature-cart-algo-total"}},
		{"state scope", IDScope, "`fdd-shop-feature-cart-state-lifecycle`", []string{"fdd-shop-feature-cart-state-lifecycle"}},
		{"instruction", IDInstruction, "ends with `inst-compute-total`", []string{"inst-compute-total"}},
		{"plain prose no match", IDScope, "nothing to see here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input, tt.kind)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%s, %q) = %v, want %v", tt.kind, tt.input, got, tt.want)
			}
		})
	}
}
