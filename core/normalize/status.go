package normalize

import (
	"strings"

	"github.com/huangsam/qapulse/schema"
)

// fold lowercases, strips Spanish accents and collapses whitespace and hyphens,
// so "TO BE DEPLOYED-SIT" and "to be deployed sit" compare equal.
func fold(s string) string {
	s = accentFolder.Replace(strings.ToLower(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

var priorityAliases = map[string]schema.Priority{
	"mas alta": schema.PriorityHighest,
	"highest":  schema.PriorityHighest,
	"alta":     schema.PriorityHigh,
	"high":     schema.PriorityHigh,
	"medio":    schema.PriorityMedium,
	"media":    schema.PriorityMedium,
	"medium":   schema.PriorityMedium,
	"baja":     schema.PriorityLow,
	"low":      schema.PriorityLow,
	"mas baja": schema.PriorityLowest,
	"lowest":   schema.PriorityLowest,
}

// CanonicalPriority maps a source priority onto the canonical enum.
// "Medio" and "Media" are both Medium. Unknown values are Unclassified.
func CanonicalPriority(raw string) schema.Priority {
	if p, ok := priorityAliases[fold(raw)]; ok {
		return p
	}
	return schema.PriorityUnclassified
}

// Workflow states as they appear in the source sheets.
const (
	StatusCanceled        = "Cancelado"
	StatusToDo            = "Tareas por hacer"
	StatusCodeReview      = "Code Review"
	StatusInSIT           = "IN SIT"
	StatusReadyForTesting = "READY FOR TESTING"
	StatusReadyForUAT     = "READY FOR UAT"
	StatusBlocked         = "Blocked"
	StatusInProgress      = "En curso"
	StatusToBeDeployed    = "TO BE DEPLOYED-SIT"
)

// WorkflowStates lists the known workflow states in board order.
var WorkflowStates = []string{
	StatusCanceled,
	StatusToDo,
	StatusCodeReview,
	StatusInSIT,
	StatusReadyForTesting,
	StatusReadyForUAT,
	StatusBlocked,
	StatusInProgress,
	StatusToBeDeployed,
}

var resolvedStatuses = map[string]bool{
	"ready for uat":      true,
	"to be deployed":     true,
	"to be deployed sit": true,
}

var pendingStatuses = map[string]bool{
	"tareas por hacer": true,
	"to do":            true,
	"todo":             true,
	"code review":      true,
	"blocked":          true,
	"bloqueado":        true,
	"en curso":         true,
	"in progress":      true,
}

// ClassifyStatus tells whether a workflow state counts as resolved or pending.
// States in neither set, such as "IN SIT" or "Cancelado", are Unclassified.
func ClassifyStatus(raw string) schema.StatusClass {
	s := fold(raw)
	switch {
	case resolvedStatuses[s]:
		return schema.StatusResolved
	case pendingStatuses[s]:
		return schema.StatusPending
	default:
		return schema.StatusUnclassified
	}
}

// StatusTotals splits a map of workflow state counts into resolution classes.
func StatusTotals(counts map[string]int) (resolved, pending, unclassified int) {
	for status, n := range counts {
		switch ClassifyStatus(status) {
		case schema.StatusResolved:
			resolved += n
		case schema.StatusPending:
			pending += n
		default:
			unclassified += n
		}
	}
	return resolved, pending, unclassified
}
