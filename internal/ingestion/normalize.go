// Package ingestion turns raw job-posting tables into normalized records.
package ingestion

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/hr-pulse/internal/types"
)

// RawRecord is one input row keyed by the original column name.
// A nil value means the cell was absent.
type RawRecord map[string]*string

var (
	digitRunRe   = regexp.MustCompile(`\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Keyword sets used to locate columns. Order inside a set does not matter;
// the first column (in header order) matching any keyword wins.
var (
	titleKeywords       = []string{"title", "job"}
	salaryKeywords      = []string{"salary"}
	descriptionKeywords = []string{"description", "desc"}
)

// CleanTitle drops everything from the first line break (ratings are
// appended on a new line, e.g. "Data Scientist\n3.5") and trims whitespace.
func CleanTitle(raw *string) string {
	if raw == nil {
		return ""
	}
	title := *raw
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}

// CleanSalary turns a range such as "$137K-$171K" into its mean in dollars.
// Fewer than two numbers yields nil; a single bound is never guessed.
func CleanSalary(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	numbers := digitRunRe.FindAllString(strings.ReplaceAll(*raw, ",", ""), -1)
	if len(numbers) < 2 {
		return nil
	}
	low, err := strconv.ParseFloat(numbers[0], 64)
	if err != nil {
		return nil
	}
	high, err := strconv.ParseFloat(numbers[1], 64)
	if err != nil {
		return nil
	}
	avg := (low*1000 + high*1000) / 2
	return &avg
}

// NormalizeColumnName lowercases, trims and replaces whitespace runs with "_".
func NormalizeColumnName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// findColumn returns the original name of the first column whose normalized
// name contains any keyword, or "" when none does.
func findColumn(columns []string, keywords []string) string {
	for _, col := range columns {
		normalized := NormalizeColumnName(col)
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return col
			}
		}
	}
	return ""
}

// Columns holds the discovered source column for each field.
// Salary and Description are empty when the input has no such column.
type Columns struct {
	Title       string
	Salary      string
	Description string
}

// DiscoverColumns maps header names onto record fields.
func DiscoverColumns(columns []string) (Columns, error) {
	cols := Columns{
		Title:       findColumn(columns, titleKeywords),
		Salary:      findColumn(columns, salaryKeywords),
		Description: findColumn(columns, descriptionKeywords),
	}
	if cols.Title == "" {
		return Columns{}, &SchemaError{Message: "no identifiable title column"}
	}
	return cols, nil
}

// Normalize cleans rows into records, dropping rows whose title cleans to "".
func Normalize(columns []string, rows []RawRecord) ([]types.NormalizedRecord, error) {
	cols, err := DiscoverColumns(columns)
	if err != nil {
		return nil, err
	}

	records := make([]types.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		title := CleanTitle(row[cols.Title])
		if title == "" {
			continue
		}

		rec := types.NormalizedRecord{Title: title}
		if cols.Salary != "" {
			rec.SalaryAvg = CleanSalary(row[cols.Salary])
		}
		if cols.Description != "" {
			if desc := row[cols.Description]; desc != nil {
				rec.Description = *desc
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Limit returns at most n leading records. n <= 0 keeps everything.
func Limit(records []types.NormalizedRecord, n int) []types.NormalizedRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}
