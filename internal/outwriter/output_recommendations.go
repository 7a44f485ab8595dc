package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// PrintRecommendations outputs the recommendations of a document per metric.
func PrintRecommendations(recs map[string][]schema.Recommendation, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, recs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRecommendations(w, recs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextRecommendations(w, recs, cfg)
		}, "Wrote text")
	}
}

func writeCSVRecommendations(w io.Writer, recs map[string][]schema.Recommendation) error {
	header := []string{"metric", "priority", "actionable", "text", "condition", "note"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, metric := range slices.Sorted(maps.Keys(recs)) {
			for _, r := range recs[metric] {
				record := []string{metric, r.Priority, strconv.FormatBool(r.Actionable), r.Text, r.Condition, r.Note}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

func writeTextRecommendations(w io.Writer, recs map[string][]schema.Recommendation, cfg *contract.Config) error {
	textWidth := GetMaxTableTextWidth(cfg)
	var rows [][]string
	for _, metric := range slices.Sorted(maps.Keys(recs)) {
		for _, r := range recs[metric] {
			rows = append(rows, []string{
				metric,
				contract.GetPriorityLabel(r.Priority, cfg.UseColors),
				contract.TruncateText(r.Icon+" "+r.Text, textWidth),
			})
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No recommendations apply.")
		return err
	}
	return renderSection(w, "💡 Recommendations", []string{"Metric", "Priority", "Recommendation"}, rows)
}
