// Package normalize reshapes wide raw result tables into the long
// normalized format and derives the temporal fields used everywhere
// downstream.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// Default normalization configuration constants.
const (
	// DefaultSemestersPerYear splits raw semester numbers into
	// (year, term) pairs.
	DefaultSemestersPerYear = 2

	unknownValue = "Unknown"
)

// DefaultSubjectColumns are the subject score columns looked up in raw
// wide-format tables.
var DefaultSubjectColumns = []string{
	"Subject_1", "Subject_2", "Subject_3", "Subject_4", "Subject_5", "Subject_6",
}

// identifierAliases maps raw identifier column names to canonical ones.
// Canonical names are also accepted as-is.
var identifierAliases = map[string]string{
	"University_Roll_No": "student_id",
	"College_Name":       "institution",
	"Batch":              "batch",
	"Semester":           "semester",
}

// derivedColumns are pre-computed columns dropped from raw input so
// stale aggregates never leak into the normalized table.
var derivedColumns = map[string]struct{}{
	"semester avg": {},
	"overall avg":  {},
}

var semesterDigits = regexp.MustCompile(`(\d+)`)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithSemestersPerYear sets how many terms make up an academic year.
func WithSemestersPerYear(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.semestersPerYear = n
		}
	}
}

// WithSubjectColumns overrides the subject columns searched for in raw
// tables.
func WithSubjectColumns(cols []string) Option {
	return func(nz *Normalizer) {
		if len(cols) > 0 {
			nz.subjectColumns = append([]string(nil), cols...)
		}
	}
}

// Normalizer converts raw wide tables into normalized records.
type Normalizer struct {
	semestersPerYear int
	subjectColumns   []string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	nz := &Normalizer{
		semestersPerYear: DefaultSemestersPerYear,
		subjectColumns:   DefaultSubjectColumns,
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// canonical returns the canonical name a raw column maps to.
func canonical(col string) string {
	if c, ok := identifierAliases[col]; ok {
		return c
	}
	return col
}

// columnIndex finds the index of a canonical column in the raw table,
// accepting either the canonical name or one of its raw aliases.
func columnIndex(t model.RawTable, name string) int {
	for i, c := range t.Columns {
		if canonical(c) == name {
			return i
		}
	}
	return -1
}

// ValidateSchema reports whether the table can be processed: it either
// carries the minimum raw identifier columns, or is already in
// normalized long form (student_id plus score).
func (nz *Normalizer) ValidateSchema(t model.RawTable) bool {
	if columnIndex(t, "student_id") >= 0 && columnIndex(t, "semester") >= 0 {
		return true
	}
	return nz.IsNormalized(t)
}

// IsNormalized reports whether the table already uses the long schema.
func (nz *Normalizer) IsNormalized(t model.RawTable) bool {
	return columnIndex(t, "student_id") >= 0 && columnIndex(t, "score") >= 0 &&
		columnIndex(t, "subject") >= 0
}

// parseSemester extracts a non-negative integer semester from a raw cell.
// Bare numbers parse directly; strings with an embedded integer such as
// "Sem 3" fall back to digit extraction.
func parseSemester(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty semester value", ErrBadSemester)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 || f != float64(int(f)) {
			return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrBadSemester, raw)
		}
		return int(f), nil
	}
	if m := semesterDigits.FindString(s); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadSemester, raw)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadSemester, raw)
}

// cellOrDefault reads a canonical column for a row, defaulting when the
// column is absent or empty.
func cellOrDefault(t model.RawTable, row []string, name, def string) string {
	idx := columnIndex(t, name)
	if idx < 0 || idx >= len(row) {
		return def
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return def
	}
	return v
}

// Normalize reshapes a raw wide table into normalized records and
// derives year, term, time label and time index. The whole dataset is
// rejected when any semester value fails to parse or when no subject
// columns are found; no partial output is ever produced. Rows missing a
// subject score emit no record for that subject.
//
// Pre-existing derived columns ("semester avg", "overall avg") are never
// read, so stale aggregates cannot leak through.
func (nz *Normalizer) Normalize(ctx context.Context, t model.RawTable) ([]model.NormalizedRecord, error) {
	if columnIndex(t, "student_id") < 0 || columnIndex(t, "semester") < 0 {
		return nil, fmt.Errorf("%w: need student id and semester columns", ErrSchema)
	}

	available := make([]string, 0, len(nz.subjectColumns))
	for _, c := range nz.subjectColumns {
		if _, derived := derivedColumns[c]; derived {
			continue
		}
		if t.HasColumn(c) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoSubjectColumns
	}

	semIdx := columnIndex(t, "semester")
	idIdx := columnIndex(t, "student_id")

	// First pass: fail the whole dataset before emitting anything.
	semesters := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		raw := ""
		if semIdx < len(row) {
			raw = row[semIdx]
		}
		sem, err := parseSemester(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		semesters[i] = sem
	}

	records := make([]model.NormalizedRecord, 0, len(t.Rows)*len(available))
	for i, row := range t.Rows {
		sem := semesters[i]
		year := (sem-1)/nz.semestersPerYear + 1
		term := (sem-1)%nz.semestersPerYear + 1
		label := fmt.Sprintf("Year %d Sem %d", year, term)

		studentID := ""
		if idIdx < len(row) {
			studentID = strings.TrimSpace(row[idIdx])
		}
		institution := cellOrDefault(t, row, "institution", unknownValue)
		batch := cellOrDefault(t, row, "batch", unknownValue)

		for _, subject := range available {
			cell := strings.TrimSpace(t.Cell(row, subject))
			if cell == "" {
				continue // missing score: no output row
			}
			score, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w: %q", i, subject, ErrBadScore, cell)
			}
			records = append(records, model.NormalizedRecord{
				StudentID:   studentID,
				Institution: institution,
				Batch:       batch,
				Semester:    sem,
				Year:        year,
				Term:        term,
				TimeLabel:   label,
				TimeIndex:   sem,
				Subject:     subject,
				Score:       score,
			})
		}
	}
	return records, nil
}

// FromNormalized parses a table already in the long schema back into
// records, so previously exported normalized files can be re-ingested
// without another wide-to-long pass.
func (nz *Normalizer) FromNormalized(ctx context.Context, t model.RawTable) ([]model.NormalizedRecord, error) {
	if !nz.IsNormalized(t) {
		return nil, fmt.Errorf("%w: table is not in normalized form", ErrSchema)
	}

	records := make([]model.NormalizedRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		semRaw := t.Cell(row, "semester")
		if semRaw == "" {
			semRaw = t.Cell(row, "time_index")
		}
		sem, err := parseSemester(semRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		scoreCell := strings.TrimSpace(t.Cell(row, "score"))
		if scoreCell == "" {
			continue
		}
		score, err := strconv.ParseFloat(scoreCell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %q", i, ErrBadScore, scoreCell)
		}
		year := (sem-1)/nz.semestersPerYear + 1
		term := (sem-1)%nz.semestersPerYear + 1
		records = append(records, model.NormalizedRecord{
			StudentID:   strings.TrimSpace(t.Cell(row, "student_id")),
			Institution: cellOrDefault(t, row, "institution", unknownValue),
			Batch:       cellOrDefault(t, row, "batch", unknownValue),
			Semester:    sem,
			Year:        year,
			Term:        term,
			TimeLabel:   fmt.Sprintf("Year %d Sem %d", year, term),
			TimeIndex:   sem,
			Subject:     strings.TrimSpace(t.Cell(row, "subject")),
			Score:       score,
		})
	}
	return records, nil
}
