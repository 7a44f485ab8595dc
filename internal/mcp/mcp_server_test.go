package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/qapulse/core/sample"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/iocache"
	mcp_internal "github.com/huangsam/qapulse/internal/mcp"
	"github.com/huangsam/qapulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDocumentStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)

	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := &contract.Config{WorkbookPath: "qa-data.xlsx", AutomationCoverage: -1}

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"unknown section", "get_qa_report", map[string]any{"section": "everything"}, "unknown section"},
		{"unknown metric", "get_recommendations", map[string]any{"metric": "velocity"}, "unknown metric"},
		{"missing condition", "evaluate_condition", map[string]any{}, "condition is required"},
		{"bad variables", "evaluate_condition", map[string]any{"condition": "avg > 1", "variables": "avg=2"}, "invalid variables"},
		{"non numeric variable", "evaluate_condition", map[string]any{"condition": "avg > 1", "variables": map[string]any{"avg": "high"}}, "is not a number"},
		{"unknown identifier", "evaluate_condition", map[string]any{"condition": "avg > 1"}, "unknown identifier"},
		{"syntax error", "evaluate_condition", map[string]any{"condition": "avg >", "variables": map[string]any{"avg": 2.0}}, "syntax error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestEvaluateCondition(t *testing.T) {
	cfg := &contract.Config{}
	tests := []struct {
		condition string
		variables map[string]any
		matched   bool
	}{
		{"avg >= 150 && avg < 200", map[string]any{"avg": 170.0}, true},
		{"avg >= 150 && avg < 200", map[string]any{"avg": 210.0}, false},
		{"byPriority.critical > 3", map[string]any{"byPriority.critical": 4.0}, true},
		{"pending === 0", map[string]any{"pending": 0.0}, true},
		{"default", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			args := map[string]any{"condition": tt.condition}
			if tt.variables != nil {
				args["variables"] = tt.variables
			}
			res := callTool(t, cfg, "evaluate_condition", args)
			require.False(t, res.IsError, resultText(t, res))

			var out struct {
				Matched bool `json:"matched"`
			}
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
			assert.Equal(t, tt.matched, out.Matched)
		})
	}
}

func TestGetQAReport(t *testing.T) {
	workbook := filepath.Join(t.TempDir(), "qa-data.xlsx")
	require.NoError(t, sample.Write(workbook))
	cfg := &contract.Config{WorkbookPath: workbook, AutomationCoverage: -1}

	t.Run("full document", func(t *testing.T) {
		res := callTool(t, cfg, "get_qa_report", nil)
		require.False(t, res.IsError)
		var doc schema.QADocument
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &doc))
		assert.True(t, doc.IsRealData)
		assert.Len(t, doc.SprintData, 6)
	})

	t.Run("sprints section", func(t *testing.T) {
		res := callTool(t, cfg, "get_qa_report", map[string]any{"section": "sprints", "force_reload": true})
		require.False(t, res.IsError)
		var out struct {
			IsRealData bool                 `json:"_isRealData"`
			Data       []schema.SprintPoint `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.True(t, out.IsRealData)
		require.Len(t, out.Data, 6)
		assert.Equal(t, -59, out.Data[1].Change)
	})

	t.Run("missing workbook falls back", func(t *testing.T) {
		res := callTool(t, cfg, "get_qa_report", map[string]any{"workbook_path": "/nonexistent/qa.xlsx", "section": "summary"})
		require.False(t, res.IsError)
		var out struct {
			IsRealData bool              `json:"_isRealData"`
			DataSource schema.DataSource `json:"_dataSource"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.False(t, out.IsRealData)
		assert.Equal(t, schema.FallbackSource, out.DataSource)
	})
}

func TestGetRecommendations(t *testing.T) {
	workbook := filepath.Join(t.TempDir(), "qa-data.xlsx")
	require.NoError(t, sample.Write(workbook))
	cfg := &contract.Config{WorkbookPath: workbook, AutomationCoverage: -1}

	res := callTool(t, cfg, "get_recommendations", map[string]any{"metric": "cycleTime"})
	require.False(t, res.IsError)

	var recs map[string][]schema.Recommendation
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &recs))
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs["cycleTime"])
}

func TestGetKPIDefinitions(t *testing.T) {
	res := callTool(t, &contract.Config{AutomationCoverage: -1}, "get_kpi_definitions", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Developer workload")
}
