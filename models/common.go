package models

import (
	"strings"
	"time"
)

// SQLTimeLayout matches SQLite's CURRENT_TIMESTAMP text so server-derived
// timestamps sort and group the same way as column defaults.
const SQLTimeLayout = "2006-01-02 15:04:05"

// FormatSQLTime renders t in UTC using SQLTimeLayout.
func FormatSQLTime(t time.Time) string {
	return t.UTC().Format(SQLTimeLayout)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Fields returns the offending field names, comma-joined in error order.
func (ve ValidationErrors) Fields() string {
	fields := make([]string, len(ve))
	for i, err := range ve {
		fields[i] = err.Field
	}
	return strings.Join(fields, ", ")
}
