package rules

import (
	"fmt"
	"strings"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// Rule priorities.
const (
	PriorityHigh   = "alta"
	PriorityMedium = "media"
	PriorityLow    = "baja"
)

// DevelopmentNote is attached to actionable recommendations that carry no note of their own.
const DevelopmentNote = "En desarrollo: recomendación general, requiere especificación y priorización."

const actionableIcon = "🚧 "

var priorityIcons = map[string]string{
	PriorityHigh:   "🚨",
	PriorityMedium: "⚠️",
	PriorityLow:    "✅",
}

// Icon returns the icon shown next to a recommendation of the given priority.
func Icon(priority string) string {
	if icon, ok := priorityIcons[strings.ToLower(priority)]; ok {
		return icon
	}
	return "•"
}

// IsActionable reports whether a priority asks for follow-up work.
func IsActionable(priority string) bool {
	p := strings.ToLower(priority)
	return p == PriorityHigh || p == PriorityMedium
}

// Engine evaluates recommendation rules. Rules read from a workbook replace the built-in
// rules of the metrics they name.
type Engine struct {
	sheet map[string][]schema.RecommendationRule

	// Warn reports rules that fail to evaluate. They are skipped either way.
	Warn func(msg string, err error)
}

// NewEngine creates an engine over the rules of a workbook, which may be empty.
func NewEngine(sheetRules []schema.RecommendationRule) *Engine {
	byMetric := make(map[string][]schema.RecommendationRule)
	for _, r := range sheetRules {
		key := strings.TrimSpace(r.MetricKey)
		if key == "" {
			continue
		}
		byMetric[key] = append(byMetric[key], r)
	}
	return &Engine{sheet: byMetric, Warn: contract.LogWarn}
}

// RulesFor returns the rules of a metric: workbook rules under the metric's sheet name,
// then under its key, then the built-in rules.
func (e *Engine) RulesFor(metric string) []schema.RecommendationRule {
	if r := e.sheet[SheetName(metric)]; len(r) > 0 {
		return r
	}
	if r := e.sheet[metric]; len(r) > 0 {
		return r
	}
	return DefaultRules(metric)
}

// Recommend evaluates the rules of a metric against its payload and returns the matching
// recommendations in rule order. The result is never nil.
func (e *Engine) Recommend(metric string, env Env) []schema.Recommendation {
	out := make([]schema.Recommendation, 0)
	for _, r := range e.RulesFor(metric) {
		ok, err := Evaluate(r.Condition, env)
		if err != nil {
			e.warn(fmt.Sprintf("skipping %s rule %q", metric, r.Condition), err)
			continue
		}
		if ok {
			out = append(out, Decorate(r))
		}
	}
	return out
}

// RecommendAll evaluates every known metric. Metrics without a payload are evaluated
// against an empty one, so only their unconditional rules apply.
func (e *Engine) RecommendAll(payloads map[string]Env) map[string][]schema.Recommendation {
	out := make(map[string][]schema.Recommendation, len(Metrics))
	for _, metric := range Metrics {
		env := payloads[metric]
		if env == nil {
			env = Env{}
		}
		out[metric] = e.Recommend(metric, env)
	}
	return out
}

func (e *Engine) warn(msg string, err error) {
	if e.Warn != nil {
		e.Warn(msg, err)
	}
}

// Decorate turns a matched rule into a recommendation.
func Decorate(r schema.RecommendationRule) schema.Recommendation {
	priority := strings.ToLower(strings.TrimSpace(r.Priority))
	rec := schema.Recommendation{
		Text:      r.Text,
		Priority:  priority,
		Icon:      Icon(priority),
		Condition: r.Condition,
	}
	if IsActionable(priority) {
		rec.Actionable = true
		rec.Icon = actionableIcon + rec.Icon
		rec.Note = r.Note
		if rec.Note == "" {
			rec.Note = DevelopmentNote
		}
	}
	return rec
}

// Payloads derives the per-metric rule payloads from an assembled document.
func Payloads(doc *schema.QADocument) map[string]Env {
	highest := doc.BugsByPriority[schema.PriorityHighest.Label()]
	high := doc.BugsByPriority[schema.PriorityHigh.Label()]

	var criticalTotal, criticalPending, resolutionSum int
	for _, p := range doc.SprintData {
		criticalTotal += p.CriticalBugsTotal
		criticalPending += p.CriticalBugsPending
		resolutionSum += p.AvgResolutionTime
	}
	sprints := len(doc.SprintData)

	critical := Env{
		"total":   float64(criticalTotal),
		"highest": float64(highest.Count),
		"high":    float64(high.Count),
	}
	status := Env{
		"pending":  float64(criticalPending),
		"resolved": float64(max(0, criticalTotal-criticalPending)),
		"total":    float64(criticalTotal),
	}
	if len(doc.BugsByPriority) > 0 {
		total := highest.Count + high.Count
		pending := highest.Pending + high.Pending
		critical["total"] = float64(total)
		status["pending"] = float64(pending)
		status["resolved"] = float64(highest.Resolved + high.Resolved)
		status["total"] = float64(total)
	}

	s := doc.Summary
	q := doc.QualityMetrics
	return map[string]Env{
		MetricTestCases: {
			"avg":     float64(schema.RoundHalfUp(schema.SafeDiv(float64(s.TestCasesExecuted), float64(sprints)))),
			"total":   float64(s.TestCasesExecuted),
			"sprints": float64(sprints),
		},
		MetricResolutionEfficiency: {
			"efficiency": s.ResolutionEfficiency,
			"total":      float64(s.TotalBugs),
			"resolved":   float64(s.BugsClosed),
			"pending":    float64(s.BugsPending),
		},
		MetricCriticalBugs:       critical,
		MetricCriticalBugsStatus: status,
		MetricCycleTime: {
			"avg":                 q.CycleTime,
			"byPriority.critical": schema.RoundTo(schema.SafeDiv(float64(resolutionSum), float64(sprints)), 1),
		},
		MetricDefectDensity: {
			"avg":      q.DefectDensity.Average,
			"max":      q.DefectDensity.Max,
			"min":      q.DefectDensity.Min,
			"trend":    q.DefectDensity.Trend,
			"critical": q.CriticalBugsRatio / 100,
		},
	}
}
