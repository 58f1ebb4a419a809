// Package mcpserver exposes the preview pipeline as a Model Context Protocol
// tool so agents can request link previews over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkpreview/internal/preview"
)

// ToolName is the name agents use to call the preview tool.
const ToolName = "link_preview"

// New builds an MCP server with the link_preview tool registered.
func New(previews preview.Previewer, version string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"linkpreview",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(Tool(), Handler(previews, logger))
	return s
}

// Tool describes the link_preview tool and its arguments.
func Tool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Fetch a web page and return its link preview metadata (title, description, domain, favicon, image, canonical URL, site name and content type) as JSON. Missing fields are null."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the page to preview"),
		),
		mcp.WithString("user_agent",
			mcp.Description("User-Agent to send upstream instead of the configured default"),
		),
	)
}

// Handler runs one preview per tool call. Preview failures are reported as
// tool errors rather than protocol errors so the agent can see the cause.
func Handler(previews preview.Previewer, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		userAgent := request.GetString("user_agent", "")

		md, err := previews.Handle(ctx, rawURL, userAgent)
		if err != nil {
			logger.Debug("mcp preview failed", zap.String("url", rawURL), zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.MarshalIndent(md, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode preview: %w", err)
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
