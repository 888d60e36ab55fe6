package models

// Product is one clearance listing pulled from a product card.
// Prices are kept as the trimmed strings found on the page (e.g. "19.99").
type Product struct {
	Name          string
	CurrentPrice  string
	OriginalPrice string
	Link          string
}

// SkippedCard records a card that was dropped during extraction.
type SkippedCard struct {
	Index  int
	Reason string
	Err    error
}

// Extraction is the result of parsing one rendered listing page.
type Extraction struct {
	Products []Product
	Skipped  []SkippedCard
}

// Discount pairs a product with its original/current price ratio.
type Discount struct {
	Product Product
	Ratio   float64
}

// Summary holds the computed statistics over the exported products.
type Summary struct {
	Total        int
	Priced       int
	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64
	TopDiscounts []Discount
}
