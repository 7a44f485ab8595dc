package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// Priority represents the canonical priority of a bug.
	Priority string

	// StatusClass represents how a workflow state counts toward resolution.
	StatusClass string

	// Workload represents a developer workload classification.
	Workload string

	// RiskLevel represents a module risk classification.
	RiskLevel string

	// Impact represents the business impact of a risk area.
	Impact string

	// TestType represents the kind of test cycle a sprint ran.
	TestType string

	// DataSource identifies where a document came from.
	DataSource string

	// DefectType is one entry of the fixed defect taxonomy.
	DefectType string

	// DensityStatus represents the health band of a defect density value.
	DensityStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Canonical priorities.
const (
	PriorityHighest      Priority = "Highest"
	PriorityHigh         Priority = "High"
	PriorityMedium       Priority = "Medium"
	PriorityLow          Priority = "Low"
	PriorityLowest       Priority = "Lowest"
	PriorityUnclassified Priority = "Unclassified"
)

// Status classes for resolution counting.
const (
	StatusResolved     StatusClass = "resolved"
	StatusPending      StatusClass = "pending"
	StatusUnclassified StatusClass = "unclassified"
)

// Workload classifications. Values are the labels shown on the dashboard.
const (
	WorkloadHigh   Workload = "Alto"
	WorkloadMedium Workload = "Medio"
	WorkloadLow    Workload = "Bajo"
)

// Risk levels for modules.
const (
	RiskHigh   RiskLevel = "Alto"
	RiskMedium RiskLevel = "Medio"
	RiskLow    RiskLevel = "Bajo"
)

// Impact levels for risk areas.
const (
	ImpactCritical Impact = "Crítico"
	ImpactHigh     Impact = "Alto"
	ImpactMedium   Impact = "Medio"
)

// Test types.
const (
	UATTest    TestType = "uat"
	SystemTest TestType = "system"
)

// Data sources.
const (
	ExcelSource    DataSource = "excel"
	SQLiteSource   DataSource = "sqlite"
	FallbackSource DataSource = "fallback"
)

// Defect taxonomy.
const (
	DefectFunctional    DefectType = "Functional"
	DefectLookAndFeel   DefectType = "Look&Feel"
	DefectContentData   DefectType = "Content/Data"
	DefectIoTEvents     DefectType = "IoT-Events"
	DefectIntegration   DefectType = "Integration"
	DefectConfiguration DefectType = "Configuration"
)

// Defect density bands.
const (
	DensityCritical DensityStatus = "critical"
	DensityWarning  DensityStatus = "warning"
	DensityGood     DensityStatus = "good"
	DensityNoData   DensityStatus = "no-data"
)

// CanonicalPriorities lists the five known priorities from highest to lowest.
var CanonicalPriorities = []Priority{PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest}

// AllDefectTypes lists the defect taxonomy in display order.
var AllDefectTypes = []DefectType{
	DefectFunctional,
	DefectLookAndFeel,
	DefectContentData,
	DefectIoTEvents,
	DefectIntegration,
	DefectConfiguration,
}

// priorityLabels are the dashboard labels keyed by canonical priority.
// Medium keeps the "Media" spelling consumers already read.
var priorityLabels = map[Priority]string{
	PriorityHighest:      "Más alta",
	PriorityHigh:         "Alta",
	PriorityMedium:       "Media",
	PriorityLow:          "Baja",
	PriorityLowest:       "Más baja",
	PriorityUnclassified: "Sin clasificar",
}

// Label returns the dashboard label for the priority.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return priorityLabels[PriorityUnclassified]
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
