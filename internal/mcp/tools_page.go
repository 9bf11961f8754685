package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
	"studio/internal/editor"
)

type pageSummary struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Blocks int    `json:"blocks"`
	Active bool   `json:"active,omitempty"`
}

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of the open document in order"),
	), s.handleListPages)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append an empty page and make it active"),
	), s.handleAddPage)

	// ── duplicate_page ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_page",
		mcp.WithDescription("Copy a page with all its blocks and insert it right after the original"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
	), s.handleDuplicatePage)

	// ── delete_page (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("DESTRUCTIVE: Delete a page and its blocks. The last page cannot be deleted."),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	// ── reorder_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_page",
		mcp.WithDescription("Move the page at index 'from' to index 'to' (0-based)"),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleReorderPage)

	// ── rename_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_page",
		mcp.WithDescription("Change the label of a page"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithString("label", mcp.Description("New label"), mcp.Required()),
	), s.handleRenamePage)

	// ── set_active_page ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Set the active page. Block tools without pageId use it."),
		mcp.WithString("pageId", mcp.Description("ID of the page to make active"), mcp.Required()),
	), s.handleSetActivePage)
}

func boolPtr(v bool) *bool { return &v }

func summarizePages(sess *editor.Session) []pageSummary {
	doc := sess.Document()
	out := make([]pageSummary, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = pageSummary{
			ID:     p.ID,
			Label:  p.Label,
			Blocks: len(doc.Blocks[p.ID]),
			Active: p.ID == sess.ActivePage(),
		}
	}
	return out
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pages []pageSummary
	_ = s.host.Do(func(sess *editor.Session) error {
		pages = summarizePages(sess)
		return nil
	})
	return s.reply(pages)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var page domain.Page
	_ = s.host.Do(func(sess *editor.Session) error {
		page = sess.AddPage()
		return nil
	})
	return s.reply(page)
}

func (s *Server) handleDuplicatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	var page domain.Page
	err := s.host.Do(func(sess *editor.Session) error {
		var err error
		page, err = sess.DuplicatePage(pageID)
		return err
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(page)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	var pages []pageSummary
	err := s.host.Do(func(sess *editor.Session) error {
		if err := sess.DeletePage(ctx, pageID); err != nil {
			return err
		}
		pages = summarizePages(sess)
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(pages)
}

func (s *Server) handleReorderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	from, okFrom := getFloat(args, "from", 0)
	to, okTo := getFloat(args, "to", 0)
	if !okFrom || !okTo {
		return nil, fmt.Errorf("from and to are required")
	}
	var pages []pageSummary
	err := s.host.Do(func(sess *editor.Session) error {
		if err := sess.ReorderPage(int(from), int(to)); err != nil {
			return err
		}
		pages = summarizePages(sess)
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(pages)
}

func (s *Server) handleRenamePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	label := req.GetString("label", "")
	if pageID == "" || label == "" {
		return nil, fmt.Errorf("pageId and label are required")
	}
	err := s.host.Do(func(sess *editor.Session) error {
		return sess.RenamePage(pageID, label)
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(fmt.Sprintf("Page %s renamed to %q", pageID, label))
}

func (s *Server) handleSetActivePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	err := s.host.Do(func(sess *editor.Session) error {
		return sess.SetActivePage(pageID)
	})
	if err != nil {
		return s.fail(fmt.Errorf("page %s: %w", pageID, err))
	}
	return s.reply(fmt.Sprintf("Active page set to %s", pageID))
}
