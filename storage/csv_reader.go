package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"

	"clearance-scraper/models"
)

// ReadCSV loads a file written by CSVWriter. The header must match Header.
func ReadCSV(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %q is empty", path)
	}
	if !slices.Equal(records[0], Header) {
		return nil, fmt.Errorf("csv: unexpected header %v in %q", records[0], path)
	}

	products := make([]models.Product, 0, len(records)-1)
	for _, rec := range records[1:] {
		products = append(products, models.Product{
			Name:          rec[0],
			CurrentPrice:  rec[1],
			OriginalPrice: rec[2],
			Link:          rec[3],
		})
	}
	return products, nil
}
