// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the clip catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veslatte/clipdex/internal/catalog"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp    *server.MCPServer
	engine *catalog.Engine
}

// New creates a new MCP server with all catalog tools registered.
func New(engine *catalog.Engine) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"Clipdex",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_clips",
		mcp.WithDescription("Search the clip catalog by title or tag. "+
			"A term starting with # matches a tag exactly."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchClips)

	s.mcp.AddTool(mcp.NewTool("list_clips",
		mcp.WithDescription("List catalog records, optionally sorted and filtered by read state."),
		mcp.WithString("sort", mcp.Description("Sort key: title, date, path, or read (default date)")),
		mcp.WithString("dir", mcp.Description("Sort direction: asc or desc (default desc)")),
		mcp.WithString("filter", mcp.Description("Read filter: all, unread, or read (default all)")),
	), s.listClips)

	s.mcp.AddTool(mcp.NewTool("get_clip",
		mcp.WithDescription("Read one catalog record including the full note content."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path of the clipped note")),
	), s.getClip)

	s.mcp.AddTool(mcp.NewTool("set_read_state",
		mcp.WithDescription("Mark a clipped note as read or unread. The flag is "+
			"persisted into the note's frontmatter."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path of the clipped note")),
		mcp.WithBoolean("read", mcp.Required(), mcp.Description("New read state")),
	), s.setReadState)

	s.mcp.AddTool(mcp.NewTool("get_clip_contract",
		mcp.WithDescription("Returns the canonical clipped-note format. "+
			"Call this before creating notes meant to appear in the catalog."),
	), s.getClipContract)

	// Resource: clipped-note format contract.
	s.mcp.AddResource(
		mcp.NewResource("clipdex://clip-format", "Clipped Note Format",
			mcp.WithResourceDescription("Canonical frontmatter shape of a clipped note."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readClipFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.engine.Snapshot()
	records := catalog.ApplyQuery(snap.Records, catalog.Query{
		Sort:   catalog.SortDate,
		Dir:    catalog.Desc,
		Filter: catalog.FilterAll,
		Search: query,
	})
	out, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := catalog.Query{Sort: catalog.SortDate, Dir: catalog.Desc, Filter: catalog.FilterAll}

	if v, err := req.RequireString("sort"); err == nil {
		switch catalog.SortKey(v) {
		case catalog.SortTitle, catalog.SortDate, catalog.SortPath, catalog.SortRead:
			q.Sort = catalog.SortKey(v)
		}
	}
	if v, err := req.RequireString("dir"); err == nil && catalog.Direction(v) == catalog.Asc {
		q.Dir = catalog.Asc
	}
	if v, err := req.RequireString("filter"); err == nil {
		switch catalog.ReadFilter(v) {
		case catalog.FilterUnread, catalog.FilterRead:
			q.Filter = catalog.ReadFilter(v)
		}
	}

	snap := s.engine.Snapshot()
	records := catalog.ApplyQuery(snap.Records, q)

	var lines []string
	for _, r := range records {
		state := "unread"
		if r.Read {
			state = "read"
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", r.ID, r.DisplayTitle, state))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("catalog is empty"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.engine.Snapshot()
	for _, r := range snap.Records {
		if r.ID == path {
			header, _ := json.MarshalIndent(catalog.ViewRecord{CatalogRecord: r}, "", "  ")
			return mcp.NewToolResultText(string(header) + "\n\n" + r.RawContent), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("not in catalog: %s", path)), nil
}

func (s *Server) setReadState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	read, err := req.RequireBool("read")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.SetRead(ctx, path, read); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s marked read=%t", path, read)), nil
}

func (s *Server) getClipContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ClipFormatContract), nil
}

func (s *Server) readClipFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "clipdex://clip-format",
			MIMEType: "text/markdown",
			Text:     ClipFormatContract,
		},
	}, nil
}
