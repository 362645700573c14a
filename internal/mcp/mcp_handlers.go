package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/onchainlab/gauge/core"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// mayerResponse is the payload of compute_mayer_multiple.
type mayerResponse struct {
	Window     int                            `json:"window"`
	Points     int                            `json:"points"`
	Complete   int                            `json:"complete"`
	Simplified []schema.SimplifiedObservation `json:"simplified"`
	Samples    []schema.ComparisonSample      `json:"samples"`
}

// tableResponse is the payload of convert_metric.
type tableResponse struct {
	Metric  schema.MetricKind `json:"metric"`
	Output  string            `json:"output"`
	Columns []string          `json:"columns"`
	Rows    [][]string        `json:"rows"`
	Skipped int               `json:"skipped"`
	Notes   []string          `json:"notes"`
}

func (h *toolHandler) handleComputeMayer(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("input_path", "")
	if w := request.GetInt("window", 0); w != 0 {
		cfg.Window = w
	}
	if n := request.GetInt("samples", -1); n >= 0 {
		cfg.Samples = n
	}

	if cfg.InputPath == "" {
		return mcp.NewToolResultError("input_path is required"), nil
	}
	if cfg.Window < 1 || cfg.Window > contract.MaxWindow {
		return mcp.NewToolResultError(fmt.Sprintf("window must be between 1 and %d", contract.MaxWindow)), nil
	}

	start := time.Now()
	result, err := core.ComputeMayer(cfg.InputPath, cfg.Window, cfg.Samples)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("mayer multiple failed: %v", err)), nil
	}
	core.RecordHistory(h.mgr, core.MayerTable(result), cfg.InputPath, start)

	simplified := result.Simplified
	if simplified == nil {
		simplified = []schema.SimplifiedObservation{}
	}
	samples := result.Samples
	if samples == nil {
		samples = []schema.ComparisonSample{}
	}
	jsonData, _ := json.MarshalIndent(mayerResponse{
		Window:     result.Window,
		Points:     len(result.Full),
		Complete:   len(result.Simplified),
		Simplified: simplified,
		Samples:    samples,
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleConvertMetric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric := schema.MetricKind(request.GetString("metric", ""))
	inputPath := request.GetString("input_path", "")

	if inputPath == "" {
		return mcp.NewToolResultError("input_path is required"), nil
	}
	if !schema.IsValidMetric(metric) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid metric '%s'", metric)), nil
	}
	if metric == schema.MayerMetric {
		return mcp.NewToolResultError("use compute_mayer_multiple for the mayer metric"), nil
	}

	start := time.Now()
	table, err := core.ConvertFile(metric, inputPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}
	core.RecordHistory(h.mgr, table, inputPath, start)

	notes := table.Notes
	if notes == nil {
		notes = []string{}
	}
	jsonData, _ := json.MarshalIndent(tableResponse{
		Metric:  table.Metric,
		Output:  core.OutputName(metric),
		Columns: table.Columns,
		Rows:    table.Records(),
		Skipped: table.Skipped,
		Notes:   notes,
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.MetricInfos(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
