package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the fdd-status MCP prompt.
// It instructs the AI to read and present the project's validation state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("fdd-status",
		mcp.WithPromptDescription(
			"Check the validation status of your project. "+
				"Shows every feature's implementation status, FDL step "+
				"progress, and recent validation runs.",
		),
	)
}

// Handle processes the fdd-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Project validation status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please read the `fdd://project/features` resource to check my project's status.\n\n" +
						"Then:\n" +
						"1. Show me each feature with its status emoji and step progress (done/total)\n" +
						"2. Flag any feature whose status looks inconsistent with its step counts\n" +
						"3. If the `fdd://validation/history` resource is available, summarize the last few runs\n" +
						"4. Tell me which feature most needs attention and why",
				),
			},
		},
	}, nil
}
