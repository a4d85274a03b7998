package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/tree"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Options configure how trees are built and rendered by the tools.
type Options struct {
	Exclude      []string
	Sort         bool
	Placeholders tree.Placeholders
	Logger       *zap.Logger
}

// Server wraps an MCP server that exposes ASCII tree tools.
type Server struct {
	opts Options
	log  *zap.Logger
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server with the given options.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		opts: opts,
		log:  log,
	}

	s.mcp = server.NewMCPServer(
		"asciitree",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(renderDirectoryTool, s.handleRenderDirectory)
	s.mcp.AddTool(normalizeTreeTool, s.handleNormalizeTree)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
