package schema

// BugRecord is one row of the flat per-bug report.
type BugRecord struct {
	Key           string      `json:"key"`
	ID            string      `json:"id"`
	Summary       string      `json:"summary"`
	Priority      Priority    `json:"priority"`
	PriorityRaw   string      `json:"priorityRaw"`
	Status        string      `json:"status"`
	StatusClass   StatusClass `json:"statusClass"`
	Sprint        string      `json:"sprint"`
	Module        string      `json:"module"`
	Developer     string      `json:"developer"`
	FoundInSprint string      `json:"foundInSprint"`
	FixedInSprint string      `json:"fixedInSprint"`
	Category      string      `json:"category"`
	CreatedDate   string      `json:"createdDate"`
}

// SprintTrendRecord is one row of the sprint trend sheet.
// CriticalBugs and CriticalBugsPending are set only when the sheet carries measured values.
type SprintTrendRecord struct {
	SprintLabel         string  `json:"sprintLabel"`
	TestCasesExecuted   int     `json:"testCasesExecuted"`
	TestCasesPending    int     `json:"testCasesPending"`
	BugsFound           int     `json:"bugsFound"`
	BugsCanceled        int     `json:"bugsCanceled"`
	BugsSolved          int     `json:"bugsSolved"`
	BugsPending         int     `json:"bugsPending"`
	PercentFailed       float64 `json:"percentFailed"`
	PercentPendingBugs  float64 `json:"percentPendingBugs"`
	CriticalBugs        *int    `json:"criticalBugs,omitempty"`
	CriticalBugsPending *int    `json:"criticalBugsPending,omitempty"`
}

// DeveloperSummary holds per-developer workflow state counts.
type DeveloperSummary struct {
	Name         string         `json:"name"`
	StatusCounts map[string]int `json:"statusCounts"`
	Total        int            `json:"total"`
}

// ModuleSummary holds the bug count for a single module.
type ModuleSummary struct {
	ModuleName        string `json:"moduleName"`
	BugCount          int    `json:"bugCount"`
	PercentageOfTotal int    `json:"percentageOfTotal"`
	EstimatedPending  int    `json:"estimatedPending"`
	PendingEstimated  bool   `json:"pendingEstimated"`
}

// VersionMetadata describes the release tested in a sprint.
type VersionMetadata struct {
	SprintLabel string `json:"sprintLabel"`
	VersionName string `json:"versionName"`
	Date        string `json:"date"`
	Environment string `json:"environment"`
	TestPlan    string `json:"testPlan"`
	Tags        string `json:"tags"`
}

// CategoryBreakdown holds defect type counts for one category row.
type CategoryBreakdown struct {
	CategoryName       string             `json:"categoryName"`
	CountsByDefectType map[DefectType]int `json:"countsByDefectType"`
	Total              int                `json:"total"`
}

// SprintStatusRecord holds workflow state counts for one sprint.
type SprintStatusRecord struct {
	SprintLabel  string         `json:"sprintLabel"`
	StatusCounts map[string]int `json:"statusCounts"`
	Total        int            `json:"total"`
}

// RecommendationRule is a single recommendation rule, either built in or read from a workbook.
type RecommendationRule struct {
	MetricKey string `json:"metricKey"`
	Condition string `json:"condition"`
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	Note      string `json:"note,omitempty"`
}

// Dataset is the normalized content of one workbook.
type Dataset struct {
	SourceFile     string
	SheetsFound    []string
	Bugs           []BugRecord
	Trend          []SprintTrendRecord
	Developers     []DeveloperSummary
	Modules        []ModuleSummary
	Versions       []VersionMetadata
	Categories     []CategoryBreakdown
	SprintStatuses []SprintStatusRecord
	Rules          []RecommendationRule
}

// HasData reports whether any dimension carries at least one record.
// Recommendation rules alone do not count as data.
func (d *Dataset) HasData() bool {
	if d == nil {
		return false
	}
	return len(d.Bugs) > 0 ||
		len(d.Trend) > 0 ||
		len(d.Developers) > 0 ||
		len(d.Modules) > 0 ||
		len(d.Versions) > 0 ||
		len(d.Categories) > 0 ||
		len(d.SprintStatuses) > 0
}
