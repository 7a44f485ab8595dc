package normalize

import (
	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/schema"
)

// Sheet names of the QA workbook.
const (
	TrendSheetName     = "Tendencia"
	DeveloperSheetName = "BUGS X DESARROLLADOR"
	ModuleSheetName    = "BUG X MÓDULO"
	SprintSheetName    = "BUGS X SPRINT"
	VersionSheetName   = "Versiones"
	CategorySheetName  = "BUGS X CATEGORÍA"
	BugSheetName       = "Reporte_Gral"
	RuleSheetName      = "Recomendaciones"
)

// Column aliases shared by the layouts and the entity normalizers.
var (
	sprintColumns    = []string{"Sprint", "SPRINT"}
	developerColumns = []string{"Bugs  por", "Desarrollador", "Developer"}
	moduleColumns    = []string{"Módulo", "Modulo", "Module"}
	categoryColumns  = []string{"Etiquetas de fila", "Categoría", "Categoria", "Category"}
	metricColumns    = []string{"Metrica", "Métrica", "Metric"}
	bugMarkerColumns = []string{"Clave", "Key", "Prioridad", "Priority", "Estado", "Status"}
	tagColumns       = []string{"Etiquetas", "Tags"}
	totalColumns     = []string{"Total general", "Total"}
)

// Layouts describes where every sheet keeps its header row.
var (
	TrendLayout     = sheet.SheetSpec{Name: TrendSheetName, Markers: sprintColumns, SkipTotals: true}
	DeveloperLayout = sheet.SheetSpec{Name: DeveloperSheetName, Markers: developerColumns, SkipTotals: true}
	ModuleLayout    = sheet.SheetSpec{Name: ModuleSheetName, Markers: moduleColumns, SkipTotals: true}
	SprintLayout    = sheet.SheetSpec{Name: SprintSheetName, Markers: sprintColumns, SkipTotals: true}
	VersionLayout   = sheet.SheetSpec{Name: VersionSheetName, Markers: sprintColumns}
	CategoryLayout  = sheet.SheetSpec{Name: CategorySheetName, Markers: categoryColumns, SkipTotals: true}
	BugLayout       = sheet.SheetSpec{Name: BugSheetName, Markers: bugMarkerColumns}
	RuleLayout      = sheet.SheetSpec{Name: RuleSheetName, Markers: metricColumns}
)

var trendFields = []FieldSpec{
	{Name: "sprint", Aliases: sprintColumns},
	{Name: "executed", Aliases: []string{"Casos de Prueba Ejecutados", "Test Cases Executed"}, Kind: Number},
	{Name: "pendingCases", Aliases: []string{"Casos de prueba Pendientes", "Test Cases Pending"}, Kind: Number},
	{Name: "found", Aliases: []string{"Bugs Encontrados", "Bugs Found"}, Kind: Number},
	{Name: "canceled", Aliases: []string{"BUGS Cancelados", "Bugs Canceled"}, Kind: Number},
	{Name: "solved", Aliases: []string{"Bugs Solucionados", "Bugs Solved"}, Kind: Number},
	{Name: "pending", Aliases: []string{"BUGS Pendientes por Resolver", "Bugs Pending"}, Kind: Number},
	{Name: "pctFailed", Aliases: []string{"% Casos de Prueba Fallidos", "% Failed"}, Kind: Number},
	{Name: "pctPending", Aliases: []string{"% Bugs Pendientes por resolver", "% Bugs Pending"}, Kind: Number},
	{Name: "critical", Aliases: []string{"Bugs Críticos", "Critical Bugs"}, Kind: Number},
	{Name: "criticalPending", Aliases: []string{"Bugs Críticos Pendientes", "Critical Bugs Pending"}, Kind: Number},
}

var moduleFields = []FieldSpec{
	{Name: "module", Aliases: moduleColumns},
	{Name: "bugs", Aliases: []string{"Bugs", "Cantidad", "Count"}, Kind: Number},
}

var versionFields = []FieldSpec{
	{Name: "sprint", Aliases: sprintColumns},
	{Name: "version", Aliases: []string{"Versión", "Version"}},
	{Name: "date", Aliases: []string{"Fecha", "Date", "Start Date"}},
	{Name: "environment", Aliases: []string{"Environment", "Ambiente", "Entorno"}},
	{Name: "testPlan", Aliases: []string{"Test Plan", "Plan de pruebas"}},
}

var bugFields = []FieldSpec{
	{Name: "key", Aliases: []string{"Clave", "Key", "Clave de incidencia", "Issue key"}},
	{Name: "id", Aliases: []string{"ID", "Id de la incidencia", "Issue id"}},
	{Name: "summary", Aliases: []string{"Resumen", "Summary"}},
	{Name: "priority", Aliases: []string{"Prioridad", "Priority"}},
	{Name: "status", Aliases: []string{"Estado", "Status"}},
	{Name: "sprint", Aliases: sprintColumns},
	{Name: "module", Aliases: append(append([]string{}, moduleColumns...), "Componente", "Component")},
	{Name: "developer", Aliases: []string{"Desarrollador", "Developer", "Responsable", "Assignee"}},
	{Name: "foundIn", Aliases: []string{"Encontrado en", "Sprint encontrado", "Found in Sprint"}},
	{Name: "fixedIn", Aliases: []string{"Corregido en", "Sprint corregido", "Fixed in Sprint"}},
	{Name: "category", Aliases: []string{"Categoría", "Categoria", "Category"}},
	{Name: "created", Aliases: []string{"Creada", "Fecha de creación", "Created"}},
}

var ruleFields = []FieldSpec{
	{Name: "metric", Aliases: metricColumns},
	{Name: "condition", Aliases: []string{"Condicion", "Condición", "Condition"}, Default: "default"},
	{Name: "text", Aliases: []string{"Recomendacion", "Recomendación", "Recommendation"}},
	{Name: "priority", Aliases: []string{"Prioridad", "Priority"}, Default: "media"},
	{Name: "note", Aliases: []string{"Nota", "Note"}},
}

// defectTypeColumns maps category sheet columns onto the defect taxonomy.
var defectTypeColumns = map[schema.DefectType][]string{
	schema.DefectFunctional:    {"Funcional", "Functional"},
	schema.DefectLookAndFeel:   {"Look&Feel", "Look & Feel"},
	schema.DefectContentData:   {"Contenido/Datos", "Content/Data"},
	schema.DefectIoTEvents:     {"Eventos_iOT", "Eventos IoT", "IoT-Events"},
	schema.DefectIntegration:   {"Integración", "Integracion", "Integration"},
	schema.DefectConfiguration: {"Configuración", "Configuracion", "Configuration"},
}

// developerPositional names the status columns of the developer sheet when its second
// header row is missing and the columns carry only generated names.
var developerPositional = map[string]string{
	"Estado":    StatusCanceled,
	"__EMPTY":   StatusToDo,
	"__EMPTY_1": StatusCodeReview,
	"__EMPTY_2": StatusInSIT,
	"__EMPTY_3": StatusReadyForTesting,
	"__EMPTY_4": StatusReadyForUAT,
	"__EMPTY_5": StatusBlocked,
	"__EMPTY_6": StatusInProgress,
	"__EMPTY_7": StatusToBeDeployed,
	"__EMPTY_8": "Total general",
}
