package schema

// KPIDefinition describes how one dashboard KPI is computed.
type KPIDefinition struct {
	Name       string   `json:"name"`
	Purpose    string   `json:"purpose"`
	Formula    string   `json:"formula"`
	Thresholds []string `json:"thresholds,omitempty"`
	Estimated  bool     `json:"estimated"`
}

// RuleSetDefinition summarizes the built-in recommendation rules of one metric.
type RuleSetDefinition struct {
	Metric string `json:"metric"`
	Sheet  string `json:"sheet"`
	Rules  int    `json:"rules"`
}

// MetricsRenderModel contains everything needed to display the KPI definitions.
type MetricsRenderModel struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	KPIs           []KPIDefinition     `json:"kpis"`
	WorkflowStates []string            `json:"workflowStates"`
	RuleSets       []RuleSetDefinition `json:"ruleSets"`
}
