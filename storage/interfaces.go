package storage

import "clearance-scraper/models"

// ProductWriter is the interface any export backend must satisfy.
type ProductWriter interface {
	Write(products []models.Product) error
	// Path names the destination, for log lines.
	Path() string
}
