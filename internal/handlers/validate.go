package handlers

import (
	"strings"
	"unicode/utf8"

	"statbank/internal/stats"
)

// Validation limits for record submissions and schema inputs.
const (
	minYear = 1900
	maxYear = 2200

	maxSourceLen           = 500
	maxFieldsPerSubmission = 500

	maxCategoryNameLen = 300
	maxDescriptionLen  = 2_000
	maxSeriesLabelLen  = 100
	maxFieldNameLen    = 300
)

// validateSubmission checks a record submission and returns the first
// error found, or "" when the input is acceptable. Field value parsing
// is not checked here; the ingestion pipeline owns those rules.
func validateSubmission(sub *stats.Submission) string {
	if sub.Year < minYear || sub.Year > maxYear {
		return "year is out of range"
	}
	if strings.TrimSpace(sub.CategoryCode) == "" {
		return "category is required"
	}
	if utf8.RuneCountInString(sub.Source) > maxSourceLen {
		return "source is too long (max 500 characters)"
	}
	if len(sub.Fields) > maxFieldsPerSubmission {
		return "too many fields in submission"
	}
	if sub.IsEdit {
		if sub.OriginalYear != 0 && (sub.OriginalYear < minYear || sub.OriginalYear > maxYear) {
			return "original year is out of range"
		}
	}
	return ""
}

// validateCategoryInput checks admin category form inputs.
func validateCategoryInput(name, description, seriesLabel string) string {
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "name is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "description is too long (max 2,000 characters)"
	}
	if utf8.RuneCountInString(seriesLabel) > maxSeriesLabelLen {
		return "series label is too long (max 100 characters)"
	}
	return ""
}

// validateFieldInput checks admin field form inputs.
func validateFieldInput(name string) string {
	if utf8.RuneCountInString(name) > maxFieldNameLen {
		return "field name is too long (max 300 characters)"
	}
	return ""
}
