package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError("field filter is invalid"),
			expected: "[VALIDATION] field filter is invalid",
		},
		{
			name:     "with cause",
			err:      NewParsingError("malformed CSV row", fmt.Errorf("record on line 3: wrong number of fields")),
			expected: "[PARSING] malformed CSV row: record on line 3: wrong number of fields",
		},
		{
			name:     "not found includes resource",
			err:      NewNotFoundError("raw dataset data/raw/oil_field_production_data.csv", os.ErrNotExist),
			expected: "[NOT_FOUND] raw dataset data/raw/oil_field_production_data.csv not found: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewNotFoundError("cleaned dataset", cause)

	require.ErrorIs(t, err, os.ErrNotExist)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeNotFound, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("target column missing", nil).
		WithContext("column", "oil_production_bbl")

	assert.Equal(t, "oil_production_bbl", err.Context["column"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("modeling step: %w", NewConfigError("target column missing", nil))

	assert.True(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(wrapped, ErrTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
}
