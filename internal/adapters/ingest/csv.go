// Package ingest reads uploaded CSV files into raw tables and writes
// normalized tables back out.
package ingest

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// ErrEmptyTable marks a CSV with no header row.
var ErrEmptyTable = errors.New("empty table: missing header row")

// normalizedHeader is the column order of exported normalized tables.
var normalizedHeader = []string{
	"student_id", "institution", "batch", "semester",
	"year", "term", "time_label", "time_index", "subject", "score",
}

// ReadTable parses CSV content into a raw table. The first row is the
// header; ragged data rows are tolerated and padded on access.
func ReadTable(r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow ragged rows
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return model.RawTable{}, ErrEmptyTable
	}
	return model.RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}

// WriteNormalized exports normalized records as a long-format CSV using
// the canonical column order, so the output round-trips through
// ReadTable and the normalizer's long-form parser.
func WriteNormalized(w io.Writer, records []model.NormalizedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(normalizedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.StudentID,
			rec.Institution,
			rec.Batch,
			strconv.Itoa(rec.Semester),
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Term),
			rec.TimeLabel,
			strconv.Itoa(rec.TimeIndex),
			rec.Subject,
			strconv.FormatFloat(rec.Score, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Fingerprint returns the hex SHA-256 of raw upload content, used to
// deduplicate identical uploads.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
