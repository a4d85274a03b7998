package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/markup"
	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

// handleRenderDirectory walks a directory and returns it as tree text.
// Unreadable subdirectories are listed after the tree instead of failing
// the call.
func (s *Server) handleRenderDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	exclude := append([]string{}, s.opts.Exclude...)
	exclude = append(exclude, request.GetStringSlice("exclude", nil)...)

	t, res, err := walker.Build(ctx, path, walker.Options{
		Exclude: exclude,
		Sort:    s.opts.Sort,
		Logger:  s.log,
	})
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return mcp.NewToolResultError(fmt.Sprintf("directory %q does not exist", path)), nil
		case errors.Is(err, walker.ErrNotDirectory):
			return mcp.NewToolResultError(fmt.Sprintf("%q is not a directory", path)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to open directory: %v", err)), nil
	}
	s.applyPlaceholders(t)
	s.log.Debug("rendered directory", zap.String("path", path), zap.Int("added", res.Added))

	out, err := s.format(request, t.Export())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Err != nil {
		out += "\n\nSome directories could not be read:\n" + res.Err.Error()
	}
	return mcp.NewToolResultText(out), nil
}

// handleNormalizeTree parses tree text and re-emits it in canonical form.
func (s *Server) handleNormalizeTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	t, err := tree.ParseWith(strings.NewReader(text), s.placeholders())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not parse tree: %v", err)), nil
	}

	out, err := s.format(request, t.Export())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) format(request mcp.CallToolRequest, text string) (string, error) {
	return markup.Render(request.GetString("format", markup.FormatText), text)
}

func (s *Server) placeholders() tree.Placeholders {
	ph := s.opts.Placeholders
	if ph.Root == "" {
		ph.Root = tree.DefaultRootPlaceholder
	}
	if ph.Branch == "" {
		ph.Branch = tree.DefaultBranchPlaceholder
	}
	return ph
}

func (s *Server) applyPlaceholders(t *tree.Tree) {
	ph := s.placeholders()
	t.RootPlaceholder = ph.Root
	t.BranchPlaceholder = ph.Branch
}
