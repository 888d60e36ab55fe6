package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"clearance-scraper/models"
)

var (
	// ErrNoProducts is returned when asked to export an empty product list.
	// No file is created in that case.
	ErrNoProducts = errors.New("csv: no products to write")

	// ErrOutputLocked is returned when another run holds the output lock.
	ErrOutputLocked = errors.New("csv: output file is locked by another run")
)

// Header is the column order of the exported file.
var Header = []string{"name", "current_price", "original_price", "link"}

// CSVWriter exports products to a CSV file.
type CSVWriter struct {
	path string
}

var _ ProductWriter = (*CSVWriter)(nil)

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the destination file.
func (c *CSVWriter) Path() string { return c.path }

// Write replaces the output file with the header row and one row per product.
// Intermediate directories are created. The file is written to a temporary
// sibling and renamed into place, and an advisory lock on "<path>.lock" is
// held for the duration so concurrent runs cannot interleave.
func (c *CSVWriter) Write(products []models.Product) error {
	if len(products) == 0 {
		return ErrNoProducts
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	lock := flock.New(c.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("csv: acquire lock: %w", err)
	}
	if !locked {
		return ErrOutputLocked
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, p := range products {
		if err := w.Write([]string{p.Name, p.CurrentPrice, p.OriginalPrice, p.Link}); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	// CreateTemp uses 0600; exports should be readable like a plain os.Create.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("csv: move into place %q: %w", c.path, err)
	}
	return nil
}
