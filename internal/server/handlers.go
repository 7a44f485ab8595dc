package server

import (
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/go-chi/render"
	"github.com/huangsam/qapulse/core"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status         string `json:"status"`
	Workbook       string `json:"workbook"`
	WorkbookFound  bool   `json:"workbookFound"`
	CacheEnabled   bool   `json:"cacheEnabled"`
	HistoryEnabled bool   `json:"historyEnabled"`
	Error          string `json:"error,omitempty"`
}

type runInfo struct {
	RunID       int64      `json:"runId"`
	RunUUID     string     `json:"runUuid"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	DurationMs  *int32     `json:"durationMs,omitempty"`
	SourceFile  string     `json:"sourceFile"`
	DataSource  string     `json:"dataSource"`
	TotalBugs   int32      `json:"totalBugs"`
	SprintCount int32      `json:"sprintCount"`
}

type dataSourceResponse struct {
	Type      string    `json:"type"`
	Count     int       `json:"count"`
	Data      []runInfo `json:"data"`
	Timestamp string    `json:"timestamp"`
}

type refreshResponse struct {
	Status      string            `json:"status"`
	DataSource  schema.DataSource `json:"dataSource"`
	IsRealData  bool              `json:"isRealData"`
	TotalBugs   int               `json:"totalBugs"`
	Sprints     int               `json:"sprints"`
	LastUpdated string            `json:"lastUpdated"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// handleHealth reports whether the workbook exists and the history store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		Workbook:       s.cfg.WorkbookPath,
		CacheEnabled:   s.loader.Cache.Enabled(),
		HistoryEnabled: s.history != nil,
	}
	if info, err := os.Stat(s.cfg.WorkbookPath); err == nil && !info.IsDir() {
		resp.WorkbookFound = true
	}
	if s.history != nil {
		if _, err := s.history.GetStatus(); err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			render.Status(r, http.StatusServiceUnavailable)
		}
	}
	render.JSON(w, r, resp)
}

// handleQAData serves the full document. A missing workbook still answers 200 with the
// fallback document.
func (s *Server) handleQAData(w http.ResponseWriter, r *http.Request) {
	force, ok := forceReload(w, r)
	if !ok {
		return
	}
	doc, err := s.loader.Load(core.WithQuiet(r.Context()), force)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Error loading QA data")
		return
	}
	render.JSON(w, r, doc)
}

// handleRecommendations serves the recommendations of the document, optionally of a
// single metric.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric != "" && !slices.Contains(rules.Metrics, metric) {
		renderError(w, r, http.StatusBadRequest, "unknown metric: "+metric)
		return
	}
	doc, err := s.loader.Load(core.WithQuiet(r.Context()), false)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Error loading recommendations")
		return
	}
	if metric != "" {
		render.JSON(w, r, map[string][]schema.Recommendation{metric: doc.Recommendations[metric]})
		return
	}
	render.JSON(w, r, doc.Recommendations)
}

// handleDataSource lists recorded import runs: the latest one by default, or all of them
// with action=all.
func (s *Server) handleDataSource(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		renderError(w, r, http.StatusServiceUnavailable, "history tracking is disabled")
		return
	}
	action := r.URL.Query().Get("action")
	if action == "" {
		action = "latest"
	}
	if action != "latest" && action != "all" {
		renderError(w, r, http.StatusBadRequest, "invalid action parameter, use latest or all")
		return
	}

	records, err := s.history.GetAllRuns()
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if action == "latest" && len(records) > 1 {
		records = records[len(records)-1:]
	}

	resp := dataSourceResponse{
		Type:      action,
		Count:     len(records),
		Data:      make([]runInfo, 0, len(records)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, rec := range records {
		resp.Data = append(resp.Data, runInfo{
			RunID:       rec.RunID,
			RunUUID:     rec.RunUUID,
			StartTime:   rec.StartTime,
			EndTime:     rec.EndTime,
			DurationMs:  rec.RunDurationMs,
			SourceFile:  rec.SourceFile,
			DataSource:  rec.DataSource,
			TotalBugs:   rec.TotalBugs,
			SprintCount: rec.SprintCount,
		})
	}
	render.JSON(w, r, resp)
}

// handleRefresh drops the cached document and transforms the workbook again.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Invalidate(); err != nil {
		contract.LogWarn("Failed to invalidate cached document", err)
	}
	doc, err := s.loader.Load(core.WithQuiet(r.Context()), true)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Error regenerating QA data")
		return
	}
	render.JSON(w, r, refreshResponse{
		Status:      "success",
		DataSource:  doc.DataSource,
		IsRealData:  doc.IsRealData,
		TotalBugs:   doc.Summary.TotalBugs,
		Sprints:     len(doc.SprintData),
		LastUpdated: doc.Metadata.LastUpdated,
	})
}

// forceReload parses the forceReload query parameter and answers 400 when it is invalid.
func forceReload(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("forceReload")
	if raw == "" {
		return false, true
	}
	force, err := contract.ParseBoolString(raw)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid forceReload value: "+raw)
		return false, false
	}
	return force, true
}
