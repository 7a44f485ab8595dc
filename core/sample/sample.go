// Package sample builds a demonstration QA workbook laid out like the real exports,
// with title rows above the headers and aggregate rows below the data.
package sample

import "github.com/huangsam/qapulse/core/sheet"

// SheetOrder lists the sheets of the sample workbook in tab order.
var SheetOrder = []string{
	"Tendencia",
	"BUGS X DESARROLLADOR",
	"BUG X MÓDULO",
	"BUGS X SPRINT",
	"Versiones",
	"BUGS X CATEGORÍA",
	"Reporte_Gral",
	"Recomendaciones",
}

// Sheets returns the cell rows of every sample sheet keyed by sheet name.
func Sheets() map[string][][]string {
	return map[string][][]string{
		"Tendencia": {
			{"Tendencia de calidad por sprint"},
			{"Sprint", "Casos de Prueba Ejecutados", "Casos de prueba Pendientes", "Bugs Encontrados", "BUGS Cancelados", "Bugs Solucionados", "BUGS Pendientes por Resolver", "% Casos de Prueba Fallidos", "% Bugs Pendientes por resolver"},
			{"Sprint 16", "210", "12", "46", "2", "40", "4", "12%", "9%"},
			{"Sprint 17", "150", "8", "19", "1", "15", "3", "8%", "16%"},
			{"Sprint 18", "175", "5", "28", "0", "22", "6", "10%", "21%"},
			{"Sprint 19", "160", "10", "21", "1", "18", "2", "9%", "10%"},
			{"Sprint 20", "140", "4", "19", "0", "16", "3", "7%", "16%"},
			{"Sprint 21", "98", "20", "5", "0", "2", "3", "3%", "60%"},
			{"Total general", "933", "59", "138", "4", "113", "21", "", ""},
		},
		"BUGS X DESARROLLADOR": {
			{"Distribución de bugs"},
			{},
			{"Bugs  por", "Estado"},
			{"Desarrollador", "Cancelado", "Tareas por hacer", "Code Review", "IN SIT", "READY FOR TESTING", "READY FOR UAT", "Blocked", "En curso", "TO BE DEPLOYED-SIT", "Total general"},
			{"Laura Gómez", "1", "2", "1", "1", "1", "8", "0", "1", "1", "16"},
			{"Diego Torres", "0", "1", "1", "2", "1", "7", "1", "1", "1", "15"},
			{"Ana Ruiz", "0", "1", "0", "0", "1", "5", "0", "1", "1", "9"},
			{"Luis Mora", "0", "1", "0", "1", "0", "5", "0", "0", "1", "8"},
			{"Total general", "1", "5", "2", "4", "3", "25", "1", "3", "4", "48"},
		},
		"BUG X MÓDULO": {
			{"Bugs por módulo"},
			{"Módulo", "Bugs"},
			{"Pagos", "62"},
			{"Onboarding", "38"},
			{"Notificaciones", "24"},
			{"Reportes", "14"},
			{"Total", "138"},
		},
		"BUGS X SPRINT": {
			{"SPRINT", "Cancelado", "Tareas por hacer", "Code Review", "IN SIT", "READY FOR TESTING", "READY FOR UAT", "Blocked", "En curso", "TO BE DEPLOYED-SIT", "Total general"},
			{"Sprint 20", "0", "2", "1", "0", "0", "14", "0", "1", "1", "19"},
			{"Sprint 21", "0", "2", "0", "0", "1", "2", "0", "0", "0", "5"},
			{"Total general", "0", "4", "1", "0", "1", "16", "0", "1", "1", "24"},
		},
		"Versiones": {
			{"Sprint", "Versión", "Fecha", "Environment", "Test Plan", "Etiquetas", "", ""},
			{"Sprint 16", "v2.3.0", "2025-01-06", "SIT", "TP-16", "regresión"},
			{"Sprint 17", "v2.4.0", "2025-01-20", "SIT", "TP-17", "smoke", "api"},
			{"Sprint 18", "v2.5.0", "2025-02-03", "UAT", "TP-18", "aceptación"},
			{"Sprint 19", "v2.6.0", "2025-02-17", "SIT", "TP-19", "regresión", "", "uat-ready"},
			{"Sprint 20", "v2.7.0", "2025-03-03", "SIT", "TP-20"},
		},
		"BUGS X CATEGORÍA": {
			{"Bugs por categoría"},
			{},
			{"Etiquetas de fila", "Funcional", "Look&Feel", "Contenido/Datos", "Eventos_iOT", "Integración", "Configuración", "Total"},
			{"Más alta", "6", "1", "1", "2", "2", "0", "12"},
			{"Alta", "20", "6", "4", "3", "5", "2", "40"},
			{"Medio", "30", "14", "8", "4", "6", "2", "64"},
			{"Baja", "8", "8", "3", "0", "2", "1", "22"},
			{"Total", "64", "29", "16", "9", "15", "5", "138"},
		},
		"Reporte_Gral": {
			{"Clave", "Resumen", "Prioridad", "Estado", "Sprint", "Módulo", "Desarrollador", "Categoría"},
			{"QA-101", "Pago duplicado", "Más alta", "READY FOR UAT", "Sprint 20", "Pagos", "Laura Gómez", "Funcional"},
			{"QA-102", "Botón desalineado", "Baja", "Tareas por hacer", "Sprint 20", "Onboarding", "Ana Ruiz", "Look&Feel"},
			{"QA-103", "Token expira", "Alta", "Code Review", "Sprint 21", "Pagos", "Diego Torres", "Integración"},
			{"QA-104", "Texto truncado", "Medio", "IN SIT", "Sprint 21", "Reportes", "Luis Mora", "Contenido/Datos"},
			{"QA-105", "Push duplicado", "Medio", "TO BE DEPLOYED-SIT", "Sprint 21", "Notificaciones", "Laura Gómez", "Eventos_iOT"},
			{"QA-106", "Timeout en reporte", "Urgente", "En curso", "Sprint 21", "Reportes", "Diego Torres", "Configuración"},
		},
		"Recomendaciones": {
			{"Metrica", "Condicion", "Recomendacion", "Prioridad"},
			{"tiempoPromedioResolucion", "avg > 3", "Revisar el flujo de code review para acortar el ciclo.", "media"},
			{"tiempoPromedioResolucion", "default", "El ciclo de resolución está dentro de lo esperado.", "baja"},
		},
	}
}

// Write saves the sample workbook to path.
func Write(path string) error {
	return sheet.WriteWorkbook(path, SheetOrder, Sheets())
}
