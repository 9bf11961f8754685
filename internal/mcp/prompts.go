package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("draft_proposal",
		mcp.WithPromptDescription("Guide through building a multi-page client proposal"),
		mcp.WithArgument("client",
			mcp.ArgumentDescription("Client or event name shown on the cover"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("packages",
			mcp.ArgumentDescription("Comma-separated package names to offer"),
			mcp.RequiredArgument(),
		),
	), s.handleDraftProposalPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("mobile_pass",
		mcp.WithPromptDescription("Adjust every page of the open document for the mobile breakpoint"),
	), s.handleMobilePassPrompt)
}

func (s *Server) handleDraftProposalPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	client := req.Params.Arguments["client"]
	packages := req.Params.Arguments["packages"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Draft a proposal for: %s", client),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a proposal for "%s" in the open document. Follow these steps:

1. Use list_pages; rename the first page to "Cover" with rename_page
2. On the cover add a text block {"text":"%s","level":"heading-1"} and an image block for the hero picture
3. add_page for a "Packages" page and add a package-list block with {"items":[...]} listing: %s
4. add_page for a "Terms" page with paragraph text blocks
5. save_document, then export_document

Let add_block auto-place blocks unless a precise position matters.`, client, client, packages),
				},
			},
		},
	}, nil
}

func (s *Server) handleMobilePassPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Mobile layout pass",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Make the open document read well on phones:

1. set_breakpoint to "mobile"
2. For every page from list_pages, call list_blocks and look at the effective layout
3. Use update_block with position and size patches so blocks stack vertically and use at least 90% width
4. Hide decorative blocks with {"visible": false} where space is tight
5. set_breakpoint back to "desktop" and save_document

Edits at mobile only touch mobile overrides; the desktop layout stays as it is.`,
				},
			},
		},
	}, nil
}
