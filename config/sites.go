package config

import (
	"fmt"
	"sort"
	"strings"
)

// Selectors are the CSS selectors used to pull fields out of a product card.
// Title, Price, Comparison and Link are relative to the card.
type Selectors struct {
	Card       string
	Title      string
	Price      string
	Comparison string
	Link       string

	// PriceMarker is the screen-reader label that precedes the sale price in
	// the price element's text. Empty means "use the whole text".
	PriceMarker string
}

// Site is one entry of the static website table.
type Site struct {
	Key       string
	Name      string
	URL       string
	BaseURL   string
	Selectors Selectors
}

// tjxSelectors covers the card markup shared by the TJX storefronts.
var tjxSelectors = Selectors{
	Card:        "div.product-details.equal-height-cell",
	Title:       "span.product-title",
	Price:       "span.product-price",
	Comparison:  "span.price-comparison",
	Link:        "a.product-link",
	PriceMarker: "ada.newPriceLabel",
}

var sites = map[string]Site{
	"marshalls": {
		Key:       "marshalls",
		Name:      "Marshalls",
		URL:       "https://www.marshalls.com/us/store/shop/clearance/_/N-3951437597+0?Nr=AND%28OR%28product.catalogId%3Atjmaxx%29%2Cproduct.siteId%3Amarshalls%29&ln=11:1#/us/store/products/clearance/_/N-3951437597+0?No=0&Nr=AND%28isEarlyAccess%3Afalse%2COR%28product.catalogId%3Atjmaxx%29%2Cproduct.siteId%3Amarshalls%29&Ns=product.minListPrice%7C0%7C%7Cproduct.inventory%7C1&originalFilterState=3951437597+0&tag=va&va=true",
		BaseURL:   "https://www.marshalls.com/",
		Selectors: tjxSelectors,
	},
	"tjmaxx": {
		Key:       "tjmaxx",
		Name:      "T.J. Maxx",
		URL:       "https://tjmaxx.tjx.com/store/shop/clearance/_/N-3951437597?ln=11:1",
		BaseURL:   "https://tjmaxx.tjx.com/",
		Selectors: tjxSelectors,
	},
}

// LookupSite returns the table entry for key (case-insensitive).
func LookupSite(key string) (Site, error) {
	site, ok := sites[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Site{}, fmt.Errorf("config: unknown website %q (one of: %s)", key, strings.Join(SiteKeys(), ", "))
	}
	return site, nil
}

// SiteKeys lists the valid --website values in sorted order.
func SiteKeys() []string {
	keys := make([]string, 0, len(sites))
	for k := range sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
