package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
	"studio/internal/editor"
)

type sessionState struct {
	DocumentID string            `json:"documentId"`
	ActivePage string            `json:"activePage"`
	Breakpoint domain.Breakpoint `json:"breakpoint"`
	Selected   string            `json:"selected,omitempty"`
	Blocks     int               `json:"blocks"`
}

func stateOf(sess *editor.Session) sessionState {
	st := sessionState{
		DocumentID: sess.Document().ID,
		ActivePage: sess.ActivePage(),
		Breakpoint: sess.Breakpoint(),
		Blocks:     sess.Document().BlockCount(),
	}
	if b, ok := sess.Selected(); ok {
		st.Selected = b.ID
	}
	return st
}

func (s *Server) registerSessionTools() {
	commands := make([]string, len(editor.Commands))
	for i, c := range editor.Commands {
		commands[i] = string(c)
	}

	// ── run_command ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Run an editor command on a block: "+strings.Join(commands, ", ")),
		mcp.WithString("command", mcp.Description("Command name"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Target block (not needed for paste)")),
		mcp.WithNumber("x", mcp.Description("Paste location in percent of the page width (paste only)")),
		mcp.WithNumber("y", mcp.Description("Paste location in percent of the page height (paste only)")),
	), s.handleRunCommand)

	// ── set_breakpoint ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_breakpoint",
		mcp.WithDescription("Switch the editing breakpoint. Layout edits at tablet or mobile are stored as overrides."),
		mcp.WithString("breakpoint", mcp.Description("desktop, tablet or mobile"), mcp.Required()),
	), s.handleSetBreakpoint)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last document change"),
	), s.handleUndo)
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
	), s.handleRedo)

	// ── save_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Persist the document and record a revision"),
		mcp.WithString("label", mcp.Description("Revision label (optional)")),
	), s.handleSaveDocument)

	// ── export_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Render every page at desktop layout into a PDF"),
	), s.handleExportDocument)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleRunCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	cmd := editor.Command(req.GetString("command", ""))
	if cmd == "" {
		return nil, fmt.Errorf("command is required")
	}
	blockID := req.GetString("blockId", "")

	var st sessionState
	err := s.host.Do(func(sess *editor.Session) error {
		x, hasX := getFloat(args, "x", 0)
		y, hasY := getFloat(args, "y", 0)
		if hasX && hasY {
			// agents address the page in percent; use a 100x100 canvas
			sess.SetCanvas(editor.Rect{Width: 100, Height: 100})
			sess.SetPointer(editor.Point{X: x, Y: y})
		}
		if err := sess.Dispatch(ctx, cmd, blockID); err != nil {
			return err
		}
		st = stateOf(sess)
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	return s.reply(st)
}

func (s *Server) handleSetBreakpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bp, err := domain.ParseBreakpoint(req.GetString("breakpoint", ""))
	if err != nil {
		return s.fail(err)
	}
	var st sessionState
	_ = s.host.Do(func(sess *editor.Session) error {
		sess.SetBreakpoint(bp)
		st = stateOf(sess)
		return nil
	})
	return s.reply(st)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.history(func(sess *editor.Session) bool { return sess.Undo() }, "Nothing to undo")
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.history(func(sess *editor.Session) bool { return sess.Redo() }, "Nothing to redo")
}

func (s *Server) history(step func(*editor.Session) bool, empty string) (*mcp.CallToolResult, error) {
	var (
		ok bool
		st sessionState
	)
	_ = s.host.Do(func(sess *editor.Session) error {
		ok = step(sess)
		st = stateOf(sess)
		return nil
	})
	if !ok {
		return s.reply(empty)
	}
	return s.reply(st)
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := req.GetString("label", "")
	if label == "" {
		label = "Saved from agent"
	}
	if err := s.host.Save(ctx, label); err != nil {
		return s.fail(fmt.Errorf("save: %w", err))
	}
	return s.reply(fmt.Sprintf("Document %s saved", s.host.DocumentID()))
}

func (s *Server) handleExportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.exports == nil {
		return s.fail(fmt.Errorf("export is not configured"))
	}
	res, err := s.exports.Export(ctx, s.host)
	if err != nil {
		return s.fail(err)
	}
	return s.reply(res)
}
