package model

import (
	"math"
	"sort"

	"oilpulse/internal/dataset"
	apperrors "oilpulse/internal/errors"
)

// ratioEpsilon keeps the oil-to-water ratio finite for dry wells
const ratioEpsilon = 1e-6

// FeatureSet is the design matrix for the production model: one row per
// usable record, the target alongside.
type FeatureSet struct {
	Names []string
	X     [][]float64
	Y     []float64
}

// BuildFeatures assembles the model inputs from a cleaned table: the
// numeric measurement columns present (minus the target), a one-hot
// encoding of field_name with the first category (alphabetical) dropped,
// and the derived oil-to-water ratio. Rows with a null in any used column
// are skipped. A table without the target column is a configuration
// error, raised before any split or fit happens.
func BuildFeatures(t *dataset.Table) (*FeatureSet, error) {
	target, ok := t.NumericValues(dataset.ColOilProduction)
	if !ok {
		return nil, apperrors.NewConfigError(
			"dataset has no "+dataset.ColOilProduction+" column to model", nil)
	}

	var numericNames []string
	for _, name := range t.PresentNumericColumns() {
		if name != dataset.ColOilProduction {
			numericNames = append(numericNames, name)
		}
	}

	fields, hasFields := t.StringValues(dataset.ColFieldName)
	var oneHot []string
	if hasFields {
		oneHot = append(oneHot, t.UniqueStrings(dataset.ColFieldName)...)
		sort.Strings(oneHot)
		if len(oneHot) > 0 {
			// Drop the first category; it is encoded by all zeros
			oneHot = oneHot[1:]
		}
	}

	water, hasWater := t.NumericValues(dataset.ColWaterProduction)

	names := append([]string{}, numericNames...)
	for _, field := range oneHot {
		names = append(names, dataset.ColFieldName+"_"+field)
	}
	if hasWater {
		names = append(names, "oil_to_water_ratio")
	}

	fs := &FeatureSet{Names: names}
	for row := 0; row < t.NumRows(); row++ {
		if math.IsNaN(target[row]) {
			continue
		}

		features := make([]float64, 0, len(names))
		usable := true
		for _, name := range numericNames {
			values, _ := t.NumericValues(name)
			if math.IsNaN(values[row]) {
				usable = false
				break
			}
			features = append(features, values[row])
		}
		if !usable {
			continue
		}

		for _, field := range oneHot {
			if fields[row] == field {
				features = append(features, 1)
			} else {
				features = append(features, 0)
			}
		}

		if hasWater {
			if math.IsNaN(water[row]) {
				continue
			}
			features = append(features, target[row]/(water[row]+ratioEpsilon))
		}

		fs.X = append(fs.X, features)
		fs.Y = append(fs.Y, target[row])
	}

	return fs, nil
}
