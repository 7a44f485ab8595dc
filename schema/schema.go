// Package schema has the models shared by all parts of qapulse.
package schema

// DocumentVersion is the version of the QADocument layout.
const DocumentVersion = "1.0"

// QADocument is the single artifact produced per import.
// Every top-level field is always present in its JSON form.
type QADocument struct {
	Summary         Summary                     `json:"summary"`
	BugsByPriority  map[string]PriorityStats    `json:"bugsByPriority"`
	BugsByModule    map[string]ModuleStats      `json:"bugsByModule"`
	DeveloperData   []DeveloperStats            `json:"developerData"`
	SprintData      []SprintPoint               `json:"sprintData"`
	BugsByCategory  map[string]CategoryStats    `json:"bugsByCategory"`
	QualityMetrics  QualityMetrics              `json:"qualityMetrics"`
	RiskAreas       []RiskArea                  `json:"riskAreas"`
	Recommendations map[string][]Recommendation `json:"recommendations"`
	Metadata        Metadata                    `json:"metadata"`
	IsRealData      bool                        `json:"_isRealData"`
	Warning         string                      `json:"_warning,omitempty"`
	DataSource      DataSource                  `json:"_dataSource"`
	Cached          bool                        `json:"_cached,omitempty"`
}

// Summary holds the headline counts.
type Summary struct {
	TotalBugs            int     `json:"totalBugs"`
	BugsClosed           int     `json:"bugsClosed"`
	BugsPending          int     `json:"bugsPending"`
	BugsUnclassified     int     `json:"bugsUnclassified"`
	TestCasesTotal       int     `json:"testCasesTotal"`
	TestCasesExecuted    int     `json:"testCasesExecuted"`
	TestCasesPassed      int     `json:"testCasesPassed"`
	TestCasesFailed      int     `json:"testCasesFailed"`
	ResolutionEfficiency float64 `json:"resolutionEfficiency"`
}

// PriorityStats holds the counts of one priority bucket.
type PriorityStats struct {
	Priority     Priority `json:"priority"`
	Count        int      `json:"count"`
	Pending      int      `json:"pending"`
	Resolved     int      `json:"resolved"`
	Unclassified int      `json:"unclassified"`
}

// ModuleStats holds the counts of one module.
type ModuleStats struct {
	Count            int       `json:"count"`
	Percentage       int       `json:"percentage"`
	Pending          int       `json:"pending"`
	PendingEstimated bool      `json:"pendingEstimated"`
	Risk             RiskLevel `json:"risk"`
}

// DeveloperStats holds the derived workload of one developer.
type DeveloperStats struct {
	Name         string         `json:"name"`
	TotalBugs    int            `json:"totalBugs"`
	Resolved     int            `json:"resolved"`
	Pending      int            `json:"pending"`
	Unclassified int            `json:"unclassified"`
	Workload     Workload       `json:"workload"`
	StatusCounts map[string]int `json:"statusCounts"`
}

// SprintEstimates marks which sprint values are inferred rather than measured.
type SprintEstimates struct {
	CriticalBugs      bool `json:"criticalBugs"`
	AvgResolutionTime bool `json:"avgResolutionTime"`
	Velocity          bool `json:"velocity"`
}

// SprintPoint is one entry of the sprint trend series.
type SprintPoint struct {
	Sprint              string          `json:"sprint"`
	Bugs                int             `json:"bugs"`
	BugsResolved        int             `json:"bugsResolved"`
	BugsPending         int             `json:"bugsPending"`
	BugsCanceled        int             `json:"bugsCanceled"`
	TestCases           int             `json:"testCases"`
	TestCasesPending    int             `json:"testCasesPending"`
	PercentFailed       float64         `json:"percentFailed"`
	Velocity            int             `json:"velocity"`
	PlannedVelocity     int             `json:"plannedVelocity"`
	Change              int             `json:"change"`
	CriticalBugsTotal   int             `json:"criticalBugsTotal"`
	CriticalBugsPending int             `json:"criticalBugsPending"`
	AvgResolutionTime   int             `json:"avgResolutionTime"`
	Estimated           SprintEstimates `json:"estimated"`
	TestType            TestType        `json:"testType"`
	Version             string          `json:"version"`
	StartDate           string          `json:"startDate"`
	Environment         string          `json:"environment"`
	TestPlan            string          `json:"testPlan"`
	Tags                string          `json:"tags"`
	StatusCounts        map[string]int  `json:"statusCounts"`
}

// DefectTypeStats holds the count and share of one defect type.
type DefectTypeStats struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// CategoryStats holds the defect type breakdown of one category.
type CategoryStats struct {
	Total       int                            `json:"total"`
	DefectTypes map[DefectType]DefectTypeStats `json:"defectTypes"`
}

// SprintDensity is the defect density of a single sprint.
type SprintDensity struct {
	Sprint    string  `json:"sprint"`
	Density   float64 `json:"density"`
	Bugs      int     `json:"bugs"`
	TestCases int     `json:"testCases"`
}

// DefectDensity summarizes defects per executed test case.
type DefectDensity struct {
	Average        float64         `json:"avg"`
	AveragePercent float64         `json:"avgPercent"`
	TotalBugs      int             `json:"totalBugs"`
	TotalTestCases int             `json:"totalTestCases"`
	Max            float64         `json:"max"`
	Min            float64         `json:"min"`
	Sprints        int             `json:"sprints"`
	Trend          float64         `json:"trend"`
	Status         DensityStatus   `json:"status"`
	Description    string          `json:"description"`
	BySprint       []SprintDensity `json:"bySprint"`
}

// QualityMetrics holds the KPI values of the dashboard.
type QualityMetrics struct {
	TestAutomation          float64       `json:"testAutomation"`
	TestAutomationEstimated bool          `json:"testAutomationEstimated"`
	CycleTime               float64       `json:"cycleTime"`
	CycleTimeEstimated      bool          `json:"cycleTimeEstimated"`
	ResolutionEfficiency    float64       `json:"resolutionEfficiency"`
	CriticalBugsRatio       float64       `json:"criticalBugsRatio"`
	DefectDensity           DefectDensity `json:"defectDensity"`
}

// RiskArea is a module with enough bugs to warrant attention.
type RiskArea struct {
	Module     string    `json:"module"`
	Bugs       int       `json:"bugs"`
	Percentage int       `json:"percentage"`
	Risk       RiskLevel `json:"risk"`
	Impact     Impact    `json:"impact"`
}

// Recommendation is an applicable rule after evaluation.
type Recommendation struct {
	Text       string `json:"text"`
	Priority   string `json:"priority"`
	Icon       string `json:"icon"`
	Actionable bool   `json:"actionable"`
	Note       string `json:"note,omitempty"`
	Condition  string `json:"condition"`
}

// Metadata describes how and from what a document was produced.
type Metadata struct {
	LastUpdated string     `json:"lastUpdated"`
	Source      DataSource `json:"source"`
	Version     string     `json:"version"`
	Sprints     []string   `json:"sprints"`
	ExcelFile   string     `json:"excelFile,omitempty"`
	SheetsFound []string   `json:"sheetsFound"`
	GeneratedBy string     `json:"generatedBy"`
}
