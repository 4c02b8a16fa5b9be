package dashboard

import (
	"fmt"
	"math"

	"oilpulse/internal/analysis"
	"oilpulse/internal/dataset"
)

// KPIs are the dashboard's headline numbers for the filtered rows
type KPIs struct {
	TotalOil    float64 `json:"total_oil_bbl"`
	AvgDailyOil float64 `json:"avg_daily_oil_bbl"`
	ActiveWells int     `json:"active_wells"`
}

// Summary is the response body of the summary endpoint
type Summary struct {
	RowCount int      `json:"row_count"`
	Fields   []string `json:"fields"`
	KPIs     KPIs     `json:"kpis"`
	Insights []string `json:"insights"`
}

// statusActive is the well status counted by the active-wells KPI
const statusActive = "Active"

// BuildSummary computes the KPI cards and the insight sentences for a
// filtered view. fields lists the selectable field names of the full
// dataset, so the dropdown never shrinks with the filter.
func BuildSummary(filtered *dataset.Table, fields []string) Summary {
	s := Summary{
		RowCount: filtered.NumRows(),
		Fields:   fields,
		KPIs:     computeKPIs(filtered),
	}
	s.Insights = buildInsights(filtered, s.KPIs)
	return s
}

func computeKPIs(t *dataset.Table) KPIs {
	var k KPIs

	// AvgDailyOil is the per-row mean of the production column, matching
	// the row granularity of the dataset (one reading per well per day).
	if oil, ok := t.NumericValues(dataset.ColOilProduction); ok {
		n := 0
		for _, v := range oil {
			if !math.IsNaN(v) {
				k.TotalOil += v
				n++
			}
		}
		if n > 0 {
			k.AvgDailyOil = k.TotalOil / float64(n)
		}
	}

	// Distinct wells whose status is Active. Without a status column no
	// well can be shown as active.
	if wells, ok := t.StringValues(dataset.ColWellID); ok {
		if status, ok := t.StringValues(dataset.ColStatus); ok {
			active := make(map[string]struct{})
			for i, well := range wells {
				if well == "" || status[i] != statusActive {
					continue
				}
				active[well] = struct{}{}
			}
			k.ActiveWells = len(active)
		}
	}

	return k
}

// buildInsights writes the five insight sentences for the filtered rows
func buildInsights(t *dataset.Table, k KPIs) []string {
	insights := []string{
		fmt.Sprintf("Total oil production in the selected range is %.0f bbl.", k.TotalOil),
		fmt.Sprintf("Average daily oil production is %.1f bbl.", k.AvgDailyOil),
		fmt.Sprintf("%d wells are currently active.", k.ActiveWells),
	}

	if top, total, ok := topField(t); ok {
		insights = append(insights,
			fmt.Sprintf("The top producing field is %s with %.0f bbl.", top, total))
	} else {
		insights = append(insights, "No field production data in the selected range.")
	}

	r := analysis.PearsonPair(t, dataset.ColWellheadPressure, dataset.ColOilProduction)
	if math.IsNaN(r) {
		insights = append(insights,
			"Not enough data to correlate wellhead pressure with oil production.")
	} else {
		insights = append(insights,
			fmt.Sprintf("Wellhead pressure and oil production have a correlation of %.2f.", r))
	}

	return insights
}

// topField returns the field with the largest summed oil production
func topField(t *dataset.Table) (string, float64, bool) {
	fields, okF := t.StringValues(dataset.ColFieldName)
	oil, okO := t.NumericValues(dataset.ColOilProduction)
	if !okF || !okO {
		return "", 0, false
	}

	totals := make(map[string]float64)
	for i, field := range fields {
		if field == "" || math.IsNaN(oil[i]) {
			continue
		}
		totals[field] += oil[i]
	}
	if len(totals) == 0 {
		return "", 0, false
	}

	best := ""
	bestTotal := math.Inf(-1)
	for _, field := range t.UniqueStrings(dataset.ColFieldName) {
		if total, ok := totals[field]; ok && total > bestTotal {
			best = field
			bestTotal = total
		}
	}
	return best, bestTotal, true
}
