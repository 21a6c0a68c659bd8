// Package prompts implements MCP prompt handlers for validation workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ValidatePrompt handles the fdd-validate MCP prompt.
// It guides the AI through validating a feature and fixing what fails.
type ValidatePrompt struct{}

// NewValidatePrompt creates a ValidatePrompt.
func NewValidatePrompt() *ValidatePrompt {
	return &ValidatePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ValidatePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("fdd-validate",
		mcp.WithPromptDescription(
			"Validate a feature and fix any reported issues. "+
				"Checks the feature's DESIGN.md and CHANGES.md together with "+
				"the architecture documents, then walks through the failures.",
		),
		mcp.WithArgument("feature",
			mcp.ArgumentDescription("Feature slug (the part after 'feature-' in the directory name)"),
		),
	)
}

// Handle processes the fdd-validate prompt request.
func (p *ValidatePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	feature := ""
	if args := req.Params.Arguments; args != nil {
		if f, ok := args["feature"]; ok && f != "" {
			feature = f
		}
	}

	target := "the feature I'm working on (ask me which one if unclear)"
	call := "run `fdd_validate_feature` for it"
	if feature != "" {
		target = fmt.Sprintf("the '%s' feature", feature)
		call = fmt.Sprintf("run `fdd_validate_feature` with feature='%s'", feature)
	}

	return &mcp.GetPromptResult{
		Description: "Validate feature documents",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to validate %s.\n\n"+
						"Please:\n"+
						"1. %s\n"+
						"2. If every document is PASS, confirm and stop\n"+
						"3. For each FAIL, explain the issues grouped by document, most severe first\n"+
						"4. Fix the document issues one at a time, showing me each edit\n"+
						"5. Re-run the validation to confirm everything passes\n\n"+
						"Do not change code markers (fdd-begin/fdd-end) without asking me first — "+
						"a missing marker may mean the work is genuinely unfinished.",
					target, call,
				)),
			},
		},
	}, nil
}
