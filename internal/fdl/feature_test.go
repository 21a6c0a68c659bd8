package fdl

import (
	"strings"
	"testing"

	"github.com/fddtools/fddcheck/internal/validate"
)

func validFeatureDoc() string {
	return `# Feature: Checkout

## A. Overview

Checkout lets a shopper pay for a cart.

## B. User Flow

The shopper reviews the cart and confirms the order.

## C. Process Description

The system reserves stock before charging the card.

## D. State Machine

**WHEN** payment is authorized, the order moves to confirmed.

## E. Scoped Instructions

- [ ] **ID**: ` + "`fdd-shop-flow-checkout`" + `
  1. [ ] Validate the cart ` + "`inst-validate-cart`" + `

## F. Acceptance Criteria

The order is confirmed after a successful charge.
`
}

func TestValidateFeaturePasses(t *testing.T) {
	r := ValidateFeature(validFeatureDoc(), validate.DocOptions{SkipFS: true}, nil)
	if r.Status != validate.StatusPass {
		t.Fatalf("status = %s, errors = %+v", r.Status, r.Errors)
	}
}

func TestValidateFeatureSectionOrder(t *testing.T) {
	doc := strings.Replace(validFeatureDoc(), "## B. User Flow", "## X ignored", 1)
	doc = strings.Replace(doc, "## C. Process Description", "## B. User Flow", 1)
	r := ValidateFeature(doc, validate.DocOptions{SkipFS: true}, nil)
	if r.Status != validate.StatusFail {
		t.Fatal("expected FAIL for out-of-order sections")
	}
	found := false
	for _, is := range r.Errors {
		if is.Type == "structure" && len(is.RequiredOrder) > 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("no structure issue reported: %+v", r.Errors)
	}
}

func TestValidateFeatureLexicalRules(t *testing.T) {
	tests := []struct {
		name    string
		replace string
		with    string
		wantMsg string
	}{
		{
			"code fence in narrative",
			"The shopper reviews the cart and confirms the order.",
			"```go\ncode()\n```",
			"Code blocks are not allowed in Section B",
		},
		{
			"imperative keyword",
			"The system reserves stock before charging the card.",
			"**VALIDATE** the cart first.",
			"Imperative keyword **VALIDATE** is not allowed in Section C",
		},
		{
			"WHEN outside state machine",
			"The shopper reviews the cart and confirms the order.",
			"**WHEN** the cart is empty, stop.",
			"**WHEN** is only allowed in state machines (Section D)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(validFeatureDoc(), tt.replace, tt.with, 1)
			r := ValidateFeature(doc, validate.DocOptions{SkipFS: true}, nil)
			found := false
			for _, is := range r.Errors {
				if is.Type == "fdl" && strings.Contains(is.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q issue, got %+v", tt.wantMsg, r.Errors)
			}
		})
	}
}

func TestValidateFeatureAllowsWHENInStateMachine(t *testing.T) {
	r := ValidateFeature(validFeatureDoc(), validate.DocOptions{SkipFS: true}, nil)
	for _, is := range r.Errors {
		if strings.Contains(is.Message, "**WHEN**") {
			t.Errorf("Section D WHEN was flagged: %+v", is)
		}
	}
}

func TestValidateFeatureAllowsCodeInNonNarrativeSections(t *testing.T) {
	doc := strings.Replace(validFeatureDoc(),
		"The order is confirmed after a successful charge.",
		"```json\n{\"ok\": true}\n```", 1)
	r := ValidateFeature(doc, validate.DocOptions{SkipFS: true}, nil)
	for _, is := range r.Errors {
		if strings.Contains(is.Message, "Code blocks") {
			t.Errorf("Section F code block was flagged: %+v", is)
		}
	}
}
