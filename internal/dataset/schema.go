package dataset

// ColumnKind is the semantic type of a column
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindNumeric
	KindDate
)

// String returns a readable name for the kind
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// DateColumn is the canonical name of the calendar-date column
const DateColumn = "date"

// Canonical production-record columns. One row per well per day.
const (
	ColFieldName         = "field_name"
	ColWellID            = "well_id"
	ColStatus            = "status"
	ColOilProduction     = "oil_production_bbl"
	ColGasProduction     = "gas_production_mcf"
	ColWaterProduction   = "water_production_bbl"
	ColWellheadPressure  = "wellhead_pressure_psi"
	ColTubingPressure    = "tubing_pressure_psi"
	ColChokeSize         = "choke_size_in"
	ColPumpEfficiency    = "pump_efficiency_pct"
)

// NumericColumns lists the seven numeric measurement columns, in schema order.
// Outlier handling and the correlation heatmap operate on exactly this set
// (restricted to the columns actually present).
func NumericColumns() []string {
	return []string{
		ColOilProduction,
		ColGasProduction,
		ColWaterProduction,
		ColWellheadPressure,
		ColTubingPressure,
		ColChokeSize,
		ColPumpEfficiency,
	}
}

// CategoricalColumns lists the non-numeric, non-date columns
func CategoricalColumns() []string {
	return []string{ColFieldName, ColWellID, ColStatus}
}

// schemaKinds maps canonical column names to their kinds, used to type
// known columns at load time. Unknown columns are typed by content.
var schemaKinds = map[string]ColumnKind{
	DateColumn:          KindDate,
	ColFieldName:        KindString,
	ColWellID:           KindString,
	ColStatus:           KindString,
	ColOilProduction:    KindNumeric,
	ColGasProduction:    KindNumeric,
	ColWaterProduction:  KindNumeric,
	ColWellheadPressure: KindNumeric,
	ColTubingPressure:   KindNumeric,
	ColChokeSize:        KindNumeric,
	ColPumpEfficiency:   KindNumeric,
}

// SchemaKind returns the declared kind for a canonical column name
func SchemaKind(name string) (ColumnKind, bool) {
	k, ok := schemaKinds[name]
	return k, ok
}
