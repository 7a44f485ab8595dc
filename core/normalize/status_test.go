package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/qapulse/schema"
)

func TestCanonicalPriority(t *testing.T) {
	tests := map[string]schema.Priority{
		"Más alta": schema.PriorityHighest,
		"MAS ALTA": schema.PriorityHighest,
		"Highest":  schema.PriorityHighest,
		"Alta":     schema.PriorityHigh,
		"Medio":    schema.PriorityMedium,
		"Media":    schema.PriorityMedium,
		"medium":   schema.PriorityMedium,
		"Baja":     schema.PriorityLow,
		"Más baja": schema.PriorityLowest,
		" lowest ": schema.PriorityLowest,
		"Urgente":  schema.PriorityUnclassified,
		"":         schema.PriorityUnclassified,
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalPriority(in), "CanonicalPriority(%q)", in)
	}
	assert.Equal(t, "Media", CanonicalPriority("Medio").Label())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status string
		want   schema.StatusClass
	}{
		{"READY FOR UAT", schema.StatusResolved},
		{"Ready for UAT", schema.StatusResolved},
		{"TO BE DEPLOYED-SIT", schema.StatusResolved},
		{"To be deployed", schema.StatusResolved},
		{"Tareas por hacer", schema.StatusPending},
		{"To do", schema.StatusPending},
		{"Code Review", schema.StatusPending},
		{"Blocked", schema.StatusPending},
		{"En curso", schema.StatusPending},
		{"In Progress", schema.StatusPending},
		// Recognised workflow states that count toward neither class.
		{"IN SIT", schema.StatusUnclassified},
		{"READY FOR TESTING", schema.StatusUnclassified},
		{"Cancelado", schema.StatusUnclassified},
		{"Done?", schema.StatusUnclassified},
		{"", schema.StatusUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestStatusTotals(t *testing.T) {
	resolved, pending, unclassified := StatusTotals(map[string]int{
		StatusReadyForUAT:     4,
		StatusToBeDeployed:    1,
		StatusToDo:            2,
		StatusBlocked:         1,
		StatusInSIT:           3,
		StatusReadyForTesting: 2,
		StatusCanceled:        5,
	})
	assert.Equal(t, 5, resolved)
	assert.Equal(t, 3, pending)
	assert.Equal(t, 10, unclassified)

	resolved, pending, unclassified = StatusTotals(nil)
	assert.Zero(t, resolved+pending+unclassified)
}
