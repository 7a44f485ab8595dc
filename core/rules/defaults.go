package rules

import "github.com/huangsam/qapulse/schema"

// Metric keys understood by the engine.
const (
	MetricTestCases            = "testCases"
	MetricResolutionEfficiency = "resolutionEfficiency"
	MetricCriticalBugs         = "criticalBugs"
	MetricCriticalBugsStatus   = "criticalBugsStatus"
	MetricCycleTime            = "cycleTime"
	MetricDefectDensity        = "defectDensity"
)

// Metrics lists every metric key in display order.
var Metrics = []string{
	MetricTestCases,
	MetricResolutionEfficiency,
	MetricCriticalBugs,
	MetricCriticalBugsStatus,
	MetricCycleTime,
	MetricDefectDensity,
}

// sheetNames are the names a workbook's rule sheet uses for each metric.
var sheetNames = map[string]string{
	MetricTestCases:            "mediaCasosEjecutados",
	MetricDefectDensity:        "densidadDefectos",
	MetricCycleTime:            "tiempoPromedioResolucion",
	MetricCriticalBugs:         "bugsCriticosDetectados",
	MetricCriticalBugsStatus:   "estadoBugsCriticos",
	MetricResolutionEfficiency: "eficienciaResolucion",
}

// SheetName returns the workbook name of a metric, or the key itself when it has none.
func SheetName(metric string) string {
	if name, ok := sheetNames[metric]; ok {
		return name
	}
	return metric
}

func rule(metric, condition, text, priority string) schema.RecommendationRule {
	return schema.RecommendationRule{MetricKey: metric, Condition: condition, Text: text, Priority: priority}
}

// defaultRules are used for every metric the workbook does not configure.
var defaultRules = map[string][]schema.RecommendationRule{
	MetricTestCases: {
		rule(MetricTestCases, "avg >= 200", "Cobertura excelente: conservar y documentar los casos; programar revisiones periódicas por módulo", "baja"),
		rule(MetricTestCases, "avg >= 150 && avg < 200", "Cobertura aceptable: aumentar casos en módulos críticos y planificar automatización incremental", "media"),
		rule(MetricTestCases, "avg < 150", "Cobertura baja: plan de acción inmediato para incrementar casos y priorizar automatización en áreas clave", "alta"),
		rule(MetricTestCases, "default", "Configurar métricas de cobertura por módulo y medir semanalmente", "media"),
		rule(MetricTestCases, "default", "Automatizar casos repetitivos para reducir esfuerzo manual y mejorar consistencia", "media"),
		rule(MetricTestCases, "default", "Priorizar pruebas para funcionalidades críticas del negocio y documentar criterios de aceptación", "media"),
	},
	MetricResolutionEfficiency: {
		rule(MetricResolutionEfficiency, "efficiency >= 80", "Eficiencia alta: mantener prácticas actuales y documentar mejoras replicables", "baja"),
		rule(MetricResolutionEfficiency, "efficiency >= 70 && efficiency < 80", "Eficiencia buena: monitorizar para evitar degradación y optimizar cuellos de botella", "baja"),
		rule(MetricResolutionEfficiency, "efficiency < 70", "Eficiencia baja: identificar bloqueadores, reasignar recursos y reducir backlog prioritario", "alta"),
		rule(MetricResolutionEfficiency, "efficiency < 70", "Priorizar cierre de bugs antiguos y limpiar backlog antes de añadir nuevas features", "alta"),
		rule(MetricResolutionEfficiency, "default", "Establecer sincronizaciones breves QA-Dev (dailies) para acelerar resolución de impedimentos", "media"),
		rule(MetricResolutionEfficiency, "default", "Definir SLAs por prioridad para tiempo de resolución y seguimiento", "media"),
		rule(MetricResolutionEfficiency, "default", "Evaluar capacidad del equipo y contratar/redistribuir si el backlog lo requiere", "baja"),
	},
	MetricCriticalBugs: {
		rule(MetricCriticalBugs, "total > 30", "Nivel crítico: convocar acción inmediata y reasignar recursos hasta estabilizar", "alta"),
		rule(MetricCriticalBugs, "total > 20 && total <= 30", "Alta presión: asignar recursos adicionales y programar war room hasta bajar la curva", "alta"),
		rule(MetricCriticalBugs, "total <= 20", "Volumen manejable: mantener prácticas de control y seguimiento", "baja"),
		rule(MetricCriticalBugs, "default", "Establecer war room para bugs de máxima prioridad y seguimiento horario", "media"),
		rule(MetricCriticalBugs, "default", "Implementar smoke tests automáticos en pipelines principales", "media"),
		rule(MetricCriticalBugs, "default", "Analizar módulos con alta concentración de bugs críticos y planear refactor", "media"),
		rule(MetricCriticalBugs, "default", "Aumentar code reviews en funcionalidades core y documentar decisiones", "media"),
	},
	MetricCriticalBugsStatus: {
		rule(MetricCriticalBugsStatus, "pending > 15", "Urgente: convocar daily enfocado y redistribuir trabajo para reducir backlog crítico", "alta"),
		rule(MetricCriticalBugsStatus, "pending > 15", "Escalar recursos: reasignar desarrolladores senior a bugs críticos hasta estabilizar", "alta"),
		rule(MetricCriticalBugsStatus, "pending > 10 && pending <= 15", "Alta prioridad: acelerar cierre de bugs críticos y revisar bloqueo de dependencias", "alta"),
		rule(MetricCriticalBugsStatus, "pending <= 10 && pending > 0", "Volumen manejable: mantener velocidad de cierre y monitorización diaria", "baja"),
		rule(MetricCriticalBugsStatus, "pending === 0", "Excelente: todos los bugs críticos resueltos; formalizar buenas prácticas mantenidas", "baja"),
		rule(MetricCriticalBugsStatus, "default", "Definir SLA (ej. 48h) para bugs de máxima prioridad y medir cumplimiento", "media"),
		rule(MetricCriticalBugsStatus, "default", "Implementar triage diario con due owner para cada bug crítico", "media"),
		rule(MetricCriticalBugsStatus, "default", "Automatizar alertas para bugs críticos sin actualización en 24h", "baja"),
	},
	MetricCycleTime: {
		rule(MetricCycleTime, "avg > 10", "Cycle Time alto: introducir dailies focalizados y eliminar bloqueadores dentro de 48h", "alta"),
		rule(MetricCycleTime, "byPriority.critical > 5", "Críticos lentos: establecer SLA de 48h y asignar recursos dedicados a críticos", "alta"),
		rule(MetricCycleTime, "avg <= 7", "Velocidad óptima: mantener prácticas y documentar procesos eficientes", "baja"),
		rule(MetricCycleTime, "default", "Aumentar automatización de testing para detectar defectos en fases tempranas", "media"),
		rule(MetricCycleTime, "default", "Revisar y estandarizar triage para priorizar correctamente", "media"),
	},
	MetricDefectDensity: {
		rule(MetricDefectDensity, "avg > 2.0", "Alta densidad: imponer code reviews y aumentar cobertura de unit tests al 80% mínimo", "alta"),
		rule(MetricDefectDensity, "avg > 2.0", "Alta densidad: priorizar fixes en módulos con mayor incidencia y plan de refactor", "alta"),
		rule(MetricDefectDensity, "avg > 1.0 && avg <= 2.0", "Densidad moderada: definir Definition of Done con criterios de calidad claros", "media"),
		rule(MetricDefectDensity, "avg > 1.0 && avg <= 2.0", "Promover pair programming en HUs complejas para reducir regresiones", "media"),
		rule(MetricDefectDensity, "default", "Analizar módulos con alta concentración de bugs y planificar refactorizaciones por prioridad", "media"),
		rule(MetricDefectDensity, "default", "Establecer métricas de calidad de código (complejidad, code smells, deuda técnica)", "media"),
		rule(MetricDefectDensity, "default", "Capacitar al equipo en TDD para mejorar prevención de defectos", "media"),
		rule(MetricDefectDensity, "critical > 0.3", "Crítico: alta proporción de bugs críticos; investigar arquitectura y requisitos", "alta"),
		rule(MetricDefectDensity, "avg <= 1.0", "Densidad adecuada: mantener prácticas actuales y monitorizar tendencia", "baja"),
	},
}

// DefaultRules returns a copy of the built-in rules of a metric.
func DefaultRules(metric string) []schema.RecommendationRule {
	return append([]schema.RecommendationRule(nil), defaultRules[metric]...)
}
