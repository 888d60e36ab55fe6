package services

import (
	"fmt"
	"sort"

	"clearance-scraper/config"
	"clearance-scraper/models"
)

// SortProducts returns a copy of products sorted by CurrentPrice, highest
// first. The sort is stable, so equal prices keep their DOM order.
//
// config.SortLexical compares the raw price strings, so "9.99" sorts above
// "10.00". config.SortNumeric compares parsed amounts, with unparseable
// prices placed last.
func SortProducts(products []models.Product, mode string) ([]models.Product, error) {
	out := make([]models.Product, len(products))
	copy(out, products)

	switch mode {
	case config.SortLexical:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CurrentPrice > out[j].CurrentPrice
		})
	case config.SortNumeric:
		type keyed struct {
			amount float64
			ok     bool
		}
		keys := make([]keyed, len(out))
		idx := make([]int, len(out))
		for i, p := range out {
			v, err := Amount(p.CurrentPrice)
			keys[i] = keyed{amount: v, ok: err == nil}
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			ka, kb := keys[idx[a]], keys[idx[b]]
			if ka.ok != kb.ok {
				return ka.ok
			}
			return ka.amount > kb.amount
		})
		sorted := make([]models.Product, len(out))
		for i, j := range idx {
			sorted[i] = out[j]
		}
		out = sorted
	default:
		return nil, fmt.Errorf("sort: unknown mode %q", mode)
	}

	return out, nil
}
