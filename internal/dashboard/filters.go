package dashboard

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"oilpulse/internal/dataset"
	apperrors "oilpulse/internal/errors"
)

// AllFields is the field filter value meaning no field restriction
const AllFields = "all"

// Filters narrows the dashboard view to one field and a date range.
// Zero values leave the corresponding dimension unfiltered.
type Filters struct {
	Field string `validate:"omitempty,max=100"`
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

var validate = validator.New()

// ParseFilters reads and validates filters from request query parameters.
// Invalid values are a VALIDATION error; absent parameters mean no
// filtering on that dimension.
func ParseFilters(query url.Values) (Filters, error) {
	f := Filters{
		Field: query.Get("field"),
		Start: query.Get("start"),
		End:   query.Get("end"),
	}
	if f.Field == AllFields {
		f.Field = ""
	}

	if err := validate.Struct(f); err != nil {
		return Filters{}, apperrors.NewValidationError(fmt.Sprintf("invalid filter parameters: %v", err))
	}

	if f.Start != "" && f.End != "" && f.Start > f.End {
		return Filters{}, apperrors.NewValidationError("filter start date is after end date")
	}

	return f, nil
}

// Apply returns the rows of t matching every set filter dimension. An
// empty result is valid. The returned table shares nothing with t.
func (f Filters) Apply(t *dataset.Table) *dataset.Table {
	fields, hasFields := t.StringValues(dataset.ColFieldName)
	dates, hasDates := t.TimeValues(dataset.DateColumn)

	var start, end time.Time
	if f.Start != "" {
		start, _ = time.Parse("2006-01-02", f.Start)
	}
	if f.End != "" {
		end, _ = time.Parse("2006-01-02", f.End)
	}

	return t.Filter(func(i int) bool {
		if f.Field != "" && (!hasFields || fields[i] != f.Field) {
			return false
		}
		if !start.IsZero() || !end.IsZero() {
			if !hasDates || dates[i].IsZero() {
				return false
			}
			if !start.IsZero() && dates[i].Before(start) {
				return false
			}
			if !end.IsZero() && dates[i].After(end) {
				return false
			}
		}
		return true
	})
}
