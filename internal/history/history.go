// Package history persists daily average prices to an append-only CSV file.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pricewatch/internal/models"
)

var header = []string{"date", "item", "average-listed-price", "average-sold-price"}

// Record is one price history row. An absent price leaves its column empty,
// so listed-only and sold-only runs write subsets of the same schema.
type Record struct {
	Date      time.Time
	Item      string
	AvgListed models.Price
	AvgSold   models.Price
}

// Writer appends price history records to a CSV file. The header row is
// written only when the file does not already exist; prior rows are never
// rewritten or deduplicated.
type Writer struct {
	path string
}

// NewWriter creates a writer appending to path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes one record, creating the file (and its directory) on first
// use.
func (w *Writer) Append(rec Record) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	_, statErr := os.Stat(w.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := []string{
		rec.Date.Format("2006-01-02"),
		rec.Item,
		formatPrice(rec.AvgListed),
		formatPrice(rec.AvgSold),
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush record: %w", err)
	}
	return nil
}

// formatPrice rounds to currency precision at this output boundary only.
func formatPrice(p models.Price) string {
	if !p.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f", p.Value)
}
