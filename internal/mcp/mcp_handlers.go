package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/huangsam/qapulse/core"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/outwriter"
	"github.com/huangsam/qapulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) loadDocument(ctx context.Context, request mcp.CallToolRequest) (*schema.QADocument, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("workbook_path", ""); p != "" {
		cfg.WorkbookPath = p
	}
	cfg.ForceReload = request.GetBool("force_reload", false)

	doc, _, err := core.GetDocument(core.WithQuiet(ctx), cfg, h.mgr)
	return doc, err
}

func (h *toolHandler) handleGetQAReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := request.GetString("section", "full")
	if !slices.Contains(reportSections, section) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", section)), nil
	}

	doc, err := h.loadDocument(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transform failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(selectSection(doc, section), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// selectSection returns the part of doc a section names. Every part carries the data
// source flags so that callers can tell fallback data apart.
func selectSection(doc *schema.QADocument, section string) any {
	type flagged struct {
		IsRealData bool              `json:"_isRealData"`
		Warning    string            `json:"_warning,omitempty"`
		DataSource schema.DataSource `json:"_dataSource"`
		Data       any               `json:"data"`
	}
	wrap := func(data any) any {
		return flagged{IsRealData: doc.IsRealData, Warning: doc.Warning, DataSource: doc.DataSource, Data: data}
	}

	switch section {
	case "summary":
		return wrap(struct {
			Summary        schema.Summary                  `json:"summary"`
			BugsByPriority map[string]schema.PriorityStats `json:"bugsByPriority"`
		}{doc.Summary, doc.BugsByPriority})
	case "sprints":
		return wrap(doc.SprintData)
	case "developers":
		return wrap(doc.DeveloperData)
	case "modules":
		return wrap(doc.BugsByModule)
	case "quality":
		return wrap(doc.QualityMetrics)
	case "risks":
		return wrap(doc.RiskAreas)
	default:
		return doc
	}
}

func (h *toolHandler) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric := request.GetString("metric", "")
	if metric != "" && !slices.Contains(rules.Metrics, metric) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown metric %q", metric)), nil
	}

	doc, err := h.loadDocument(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transform failed: %v", err)), nil
	}

	var result any = doc.Recommendations
	if metric != "" {
		result = map[string][]schema.Recommendation{metric: doc.Recommendations[metric]}
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEvaluateCondition(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	condition := request.GetString("condition", "")
	if condition == "" {
		return mcp.NewToolResultError("condition is required"), nil
	}

	env, err := variablesEnv(request.GetArguments()["variables"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid variables: %v", err)), nil
	}

	matched, err := rules.Evaluate(condition, env)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"condition": condition,
		"matched":   matched,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// variablesEnv converts the variables argument into an evaluation environment.
// Booleans are accepted as 1 and 0.
func variablesEnv(raw any) (rules.Env, error) {
	env := rules.Env{}
	if raw == nil {
		return env, nil
	}
	vars, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", raw)
	}
	for name, v := range vars {
		switch n := v.(type) {
		case float64:
			env[name] = n
		case int:
			env[name] = float64(n)
		case bool:
			if n {
				env[name] = 1
			} else {
				env[name] = 0
			}
		default:
			return nil, fmt.Errorf("variable %q is not a number", name)
		}
	}
	return env, nil
}

func (h *toolHandler) handleGetKPIDefinitions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(outwriter.BuildMetricsRenderModel(h.baseCfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
