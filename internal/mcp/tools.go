package mcp

import "github.com/mark3labs/mcp-go/mcp"

// renderDirectoryTool defines the render_directory MCP tool.
var renderDirectoryTool = mcp.NewTool("render_directory",
	mcp.WithDescription("Render a local directory as an ASCII tree using |-- and \\-- connectors."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Directory to render"),
	),
	mcp.WithArray("exclude",
		mcp.Description("Extra glob patterns to skip, matched against names and relative paths"),
		mcp.WithStringItems(),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "markdown"),
	),
)

// normalizeTreeTool defines the normalize_tree MCP tool.
var normalizeTreeTool = mcp.NewTool("normalize_tree",
	mcp.WithDescription("Parse ASCII or unicode tree text and re-emit it in canonical |-- / \\-- form."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Tree text, one node per line, root first"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "markdown"),
	),
)
