// Package ledger maintains the append-only CSV record of every normalized
// image, plus the end-of-run summary file.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var header = []string{"ProductID", "FileName", "Type", "Width", "Height"}

// Record is one row of the ledger: a single normalized image.
type Record struct {
	ProductID int
	FileName  string
	Type      string
	Width     int
	Height    int
}

// Ledger appends image records to a CSV file. Rows are written one at a time
// by the single walker goroutine, so no locking is needed.
type Ledger struct {
	path string
}

// Path returns the ledger file location under an output root.
func Path(outputRoot string) string {
	return filepath.Join(outputRoot, "metadata", "processed_images.csv")
}

// Init truncates the ledger file and writes the header row. It creates the
// metadata directory if needed.
func Init(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write ledger header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush ledger header: %w", err)
	}

	return &Ledger{path: path}, nil
}

// Append writes one record to the end of the ledger.
func (l *Ledger) Append(r Record) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		strconv.Itoa(r.ProductID),
		r.FileName,
		r.Type,
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger row: %w", err)
	}
	return nil
}

// Read parses every record in a ledger file. Used by tests and for sanity
// logging before the publish stage.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ledger is empty, missing header")
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("ledger row has %d fields, want %d", len(row), len(header))
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad product id %q: %w", row[0], err)
		}
		w, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("bad width %q: %w", row[3], err)
		}
		h, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("bad height %q: %w", row[4], err)
		}
		records = append(records, Record{
			ProductID: id,
			FileName:  row[1],
			Type:      row[2],
			Width:     w,
			Height:    h,
		})
	}
	return records, nil
}

// SummaryPath returns the summary file location under an output root.
func SummaryPath(outputRoot string) string {
	return filepath.Join(outputRoot, "metadata", "summary.txt")
}

// WriteSummary records the run timestamp and how many products yielded at
// least one normalized image.
func WriteSummary(path string, productCount int, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	body := fmt.Sprintf(
		"Summary of Image Processing\nDate and Time: %s\nTotal Products Processed: %d\n",
		now.Format("2006-01-02 15:04:05"),
		productCount,
	)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
