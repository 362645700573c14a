// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
)

// NewMCPServer initializes and configures the Gauge MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gauge Indicator Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compute_mayer_multiple ---
	s.AddTool(mcp.NewTool("compute_mayer_multiple",
		mcp.WithDescription("Compute the 200-day SMA and Mayer Multiple from a daily price snapshot."),
		mcp.WithString("input_path", mcp.Description("Path to the JSON price snapshot."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Moving average window length. Defaults to 200.")),
		mcp.WithNumber("samples", mcp.Description("Number of recent points to compare with the vendor index. Defaults to 5.")),
	), h.handleComputeMayer)

	// --- 2. Tool: convert_metric ---
	metrics := make([]string, 0, len(schema.AllMetricKinds))
	for _, kind := range schema.AllMetricKinds {
		metrics = append(metrics, string(kind))
	}
	s.AddTool(mcp.NewTool("convert_metric",
		mcp.WithDescription("Flatten a vendor indicator snapshot into rows of readable columns."),
		mcp.WithString("metric", mcp.Description("Indicator family of the snapshot."), mcp.Required(), mcp.Enum(metrics...)),
		mcp.WithString("input_path", mcp.Description("Path to the JSON snapshot."), mcp.Required()),
	), h.handleConvertMetric)

	// --- 3. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the supported indicator families with their columns and output names."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the Gauge MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
