package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"studio/internal/layout"
	"studio/internal/notify"
	"studio/internal/service"
)

// Server is the MCP server for the Studio editor.
// It exposes the editing session as tools so agents can build documents.
type Server struct {
	mcp     *server.MCPServer
	host    *service.EditorHost
	docs    *service.DocumentService
	exports *service.ExportService
	notices *notify.Recorder
	placer  *layout.Placer
	log     *zap.Logger
}

// Deps holds everything the server needs from the application layer.
type Deps struct {
	Host    *service.EditorHost
	Docs    *service.DocumentService
	Exports *service.ExportService
	// Notices must be wired as the session's notifier; every tool result
	// carries the notices raised while it ran.
	Notices *notify.Recorder
	Log     *zap.Logger
	Version string
}

// New creates and configures the MCP server with all tools and resources.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Notices == nil {
		deps.Notices = &notify.Recorder{}
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	s := &Server{
		host:    deps.Host,
		docs:    deps.Docs,
		exports: deps.Exports,
		notices: deps.Notices,
		placer:  layout.NewPlacer(),
		log:     deps.Log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"studio-mcp",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerBlockTools()
	s.registerSessionTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("Starting stdio server")
	return server.ServeStdio(s.mcp)
}

// Emit forwards service events to connected clients as notifications.
func (s *Server) Emit(_ context.Context, event string, data any) {
	s.mcp.SendNotificationToAllClients("studio/"+event, map[string]any{"data": data})
}

// ── Helpers ────────────────────────────────────────────────

// toolReply is the JSON body of every tool result.
type toolReply struct {
	Result  any             `json:"result,omitempty"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

// reply wraps v together with the notices raised during the call.
func (s *Server) reply(v any) (*mcp.CallToolResult, error) {
	return jsonResult(toolReply{Result: v, Notices: s.notices.Drain()})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
