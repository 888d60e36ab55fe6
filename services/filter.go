package services

import "clearance-scraper/models"

// DiscountRatio returns original/current for p.
func DiscountRatio(p models.Product) (float64, bool) {
	current, err := Amount(p.CurrentPrice)
	if err != nil || current <= 0 {
		return 0, false
	}
	original, err := Amount(p.OriginalPrice)
	if err != nil {
		return 0, false
	}
	return original / current, true
}

// FilterByRatio keeps products whose original/current price ratio is at least
// min. A min of zero or less keeps everything, including unpriceable rows.
func FilterByRatio(products []models.Product, min float64) []models.Product {
	if min <= 0 {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if ratio, ok := DiscountRatio(p); ok && ratio >= min {
			out = append(out, p)
		}
	}
	return out
}
