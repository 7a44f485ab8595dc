// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// reportSections are the parts of a document get_qa_report can return.
var reportSections = []string{"full", "summary", "sprints", "developers", "modules", "quality", "risks"}

// NewMCPServer initializes and configures the QA dashboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"QA Pulse Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_qa_report ---
	s.AddTool(mcp.NewTool("get_qa_report",
		mcp.WithDescription("Transform a QA workbook into the dashboard document: summary, sprint trend, developers, modules and quality metrics."),
		mcp.WithString("workbook_path", mcp.Description("Path to the QA .xlsx workbook (defaults to the configured workbook).")),
		mcp.WithString("section", mcp.Description("Part of the document to return. Defaults to 'full'."), mcp.Enum(reportSections...)),
		mcp.WithBoolean("force_reload", mcp.Description("Bypass the five minute document cache.")),
	), h.handleGetQAReport)

	// --- 2. Tool: get_recommendations ---
	s.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Return the recommendations that apply to the workbook's metrics."),
		mcp.WithString("workbook_path", mcp.Description("Path to the QA .xlsx workbook.")),
		mcp.WithString("metric", mcp.Description("Only return the recommendations of this metric."), mcp.Enum(rules.Metrics...)),
	), h.handleGetRecommendations)

	// --- 3. Tool: evaluate_condition ---
	s.AddTool(mcp.NewTool("evaluate_condition",
		mcp.WithDescription("Evaluate a recommendation rule condition (e.g. 'avg >= 150 && avg < 200') against numeric variables."),
		mcp.WithString("condition", mcp.Description("The condition to evaluate. 'default' is always true."), mcp.Required()),
		mcp.WithObject("variables", mcp.Description("Numeric variables referenced by the condition, e.g. {\"avg\": 170}.")),
	), h.handleEvaluateCondition)

	// --- 4. Tool: get_kpi_definitions ---
	s.AddTool(mcp.NewTool("get_kpi_definitions",
		mcp.WithDescription("Describe how every dashboard KPI is computed and classified."),
	), h.handleGetKPIDefinitions)

	return s
}

// StartMCPServer starts the QA dashboard MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
