package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
	"studio/internal/editor"
	"studio/internal/layout"
)

const (
	documentURI  = "studio://document"
	documentsURI = "studio://documents"
	pagePrefix   = "studio://page/"
)

func (s *Server) registerResources() {
	// ── studio://document ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentURI,
		"Open Document",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)

	// ── studio://documents ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentsURI,
		"Stored Documents",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentsResource)

	// ── studio://page/{pageId} ─────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			pagePrefix+"{pageId}",
			"Resolved Page (desktop)",
		),
		s.handlePageResource,
	)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(documentURI, s.host.Snapshot())
}

func (s *Server) handleDocumentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.docs == nil {
		return jsonResource(documentsURI, []domain.DocumentSummary{})
	}
	list, err := s.docs.List()
	if err != nil {
		return nil, err
	}
	return jsonResource(documentsURI, list)
}

func (s *Server) handlePageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := strings.TrimPrefix(uri, pagePrefix)
	if pageID == "" || pageID == uri {
		return nil, fmt.Errorf("invalid page URI %q", uri)
	}

	var state domain.PageState
	err := s.host.Do(func(sess *editor.Session) error {
		doc := sess.Document()
		idx := doc.PageIndex(pageID)
		if idx < 0 {
			return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
		}
		state = layout.ResolvePage(doc.Pages[idx], doc.Blocks[pageID], domain.Desktop)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, state)
}
