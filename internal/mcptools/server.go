// Package mcptools exposes the detector as Model Context Protocol tools.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewDetectorMCPServer creates an MCP server with the detector tools
// registered.
func NewDetectorMCPServer(detector Detector) *mcp.Server {
	tools := NewDetectorTools(detector)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "diffdetector",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_left",
		Description: "Store the left blob for an identifier. Replaces any previous left blob for the same identifier.",
	}, tools.SetLeft)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_right",
		Description: "Store the right blob for an identifier. Replaces any previous right blob for the same identifier.",
	}, tools.SetRight)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare the left and right blobs stored for an identifier. Returns found=false until both exist; otherwise whether the lengths match and, if so, every run of differing bytes as offset/length pairs.",
	}, tools.Compare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete",
		Description: "Remove the left and right blobs stored for an identifier.",
	}, tools.Delete)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_bytes",
		Description: "Compare two inline base64 blobs without storing them. Returns whether the lengths match and every run of differing bytes.",
	}, tools.CompareBytes)

	return server
}

// HTTPHandler returns a streamable HTTP handler serving server.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
