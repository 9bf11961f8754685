package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
	"studio/internal/editor"
	"studio/internal/layout"
)

func (s *Server) registerBlockTools() {
	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to a page. Position is auto-calculated if not provided. Coordinates and sizes are percentages of the page."),
		mcp.WithString("type",
			mcp.Description("Block type: text, image, package-list, embedded-asset"),
			mcp.Required(),
		),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithNumber("x", mcp.Description("Left edge in percent (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Top edge in percent (optional, auto-layout if omitted)")),
		mcp.WithString("width", mcp.Description("Width such as \"40%\" or \"auto\" (optional, type default)")),
		mcp.WithString("height", mcp.Description("Height such as \"30%\" or \"auto\" (optional, type default)")),
		mcp.WithString("content", mcp.Description("JSON object with the block content, e.g. {\"text\":\"Hi\",\"level\":\"heading-1\"}")),
		mcp.WithString("style", mcp.Description("JSON object with style keys, e.g. {\"color\":\"#333\"}")),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Patch a block. At tablet or mobile the position, size, style and visibility go to that breakpoint's override; content and lock are only written at desktop."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("patch",
			mcp.Description("JSON patch: {content?, position?:{x?,y?}, size?:{width?,height?}, style?, visible?, locked?, delete?}. Positions and sizes are percentage strings."),
			mcp.Required(),
		),
		mcp.WithString("breakpoint", mcp.Description("desktop, tablet or mobile (optional, defaults to the session breakpoint)")),
	), s.handleUpdateBlock)

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the blocks of a page with their effective layout at a breakpoint"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("breakpoint", mcp.Description("desktop, tablet or mobile (optional, defaults to the session breakpoint)")),
	), s.handleListBlocks)

	// ── move_block_to_page ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block_to_page",
		mcp.WithDescription("Move a block to another page, keeping its ID and layout"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Target page ID"), mcp.Required()),
	), s.handleMoveBlockToPage)
}

// pageOrActive returns the pageId argument or the session's active page.
func pageOrActive(sess *editor.Session, args map[string]any) string {
	if pid, ok := args["pageId"].(string); ok && pid != "" {
		return pid
	}
	return sess.ActivePage()
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockType, err := domain.ParseBlockType(req.GetString("type", ""))
	if err != nil {
		return s.fail(err)
	}

	b := domain.Block{Type: blockType}
	if _, err := getObject(args, "content", &b.Content); err != nil {
		return s.fail(err)
	}
	if _, err := getObject(args, "style", &b.Style); err != nil {
		return s.fail(err)
	}
	if w := req.GetString("width", ""); w != "" {
		if b.Size.Width, err = domain.ParseLength(w); err != nil {
			return s.fail(err)
		}
	}
	if h := req.GetString("height", ""); h != "" {
		if b.Size.Height, err = domain.ParseLength(h); err != nil {
			return s.fail(err)
		}
	}

	var added domain.Block
	err = s.host.Do(func(sess *editor.Session) error {
		pageID := pageOrActive(sess, args)

		x, hasX := getPercent(args, "x")
		y, hasY := getPercent(args, "y")
		pos := domain.Position{X: x.Clamp(0, 1), Y: y.Clamp(0, 1)}
		if !hasX || !hasY {
			size, err := placementSize(b)
			if err != nil {
				return err
			}
			doc := sess.Document()
			pos = s.placer.NextPosition(doc.Blocks[pageID], size, sess.Breakpoint())
		}

		var err error
		added, err = sess.AddBlock(ctx, b, pageID, pos)
		return err
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(added)
}

// placementSize is the size used to look for free space: the given size with
// missing dimensions taken from the type default.
func placementSize(b domain.Block) (domain.Size, error) {
	def, err := editor.DefaultSize(b.Type, b.Content)
	if err != nil {
		return domain.Size{}, err
	}
	if b.Size.Width.IsZero() {
		b.Size.Width = def.Width
	}
	if b.Size.Height.IsZero() {
		b.Size.Height = def.Height
	}
	return b.Size, nil
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID := req.GetString("blockId", "")
	if blockID == "" {
		return nil, fmt.Errorf("blockId is required")
	}
	var patch editor.BlockPatch
	ok, err := getObject(args, "patch", &patch)
	if err != nil {
		return s.fail(err)
	}
	if !ok {
		return nil, fmt.Errorf("patch is required")
	}

	var (
		updated domain.Block
		found   bool
	)
	err = s.host.Do(func(sess *editor.Session) error {
		bp, err := getBreakpoint(req, sess.Breakpoint())
		if err != nil {
			return err
		}
		updated, found, err = sess.Patch(blockID, patch, bp)
		if err != nil {
			return fmt.Errorf("block %s: %w", blockID, err)
		}
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	if !found {
		return s.reply(fmt.Sprintf("Block %s not found, nothing changed", blockID))
	}
	if patch.Delete {
		return s.reply(fmt.Sprintf("Block %s deleted", blockID))
	}
	return s.reply(updated)
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var state domain.PageState
	err := s.host.Do(func(sess *editor.Session) error {
		bp, err := getBreakpoint(req, sess.Breakpoint())
		if err != nil {
			return err
		}
		pageID := pageOrActive(sess, args)
		doc := sess.Document()
		idx := doc.PageIndex(pageID)
		if idx < 0 {
			return fmt.Errorf("page %q: %w", pageID, domain.ErrNotFound)
		}
		state = layout.ResolvePage(doc.Pages[idx], doc.Blocks[pageID], bp)
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(state)
}

func (s *Server) handleMoveBlockToPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", "")
	pageID := req.GetString("pageId", "")
	if blockID == "" || pageID == "" {
		return nil, fmt.Errorf("blockId and pageId are required")
	}
	err := s.host.Do(func(sess *editor.Session) error {
		return sess.MoveBlockToPage(blockID, pageID)
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(fmt.Sprintf("Block %s moved to page %s", blockID, pageID))
}
