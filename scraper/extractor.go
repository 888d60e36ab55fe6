package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"clearance-scraper/config"
	"clearance-scraper/models"
	"clearance-scraper/services"
)

// Skip reasons recorded on models.SkippedCard.
const (
	ReasonMissingField = "missing field"
	ReasonParseError   = "parse error"
)

// ErrMissingField is wrapped by the error of a card lacking a required element.
var ErrMissingField = errors.New("required element missing")

// Extract parses rendered listing HTML and returns one product per complete
// card, in document order. Incomplete or unparseable cards are reported in
// Skipped rather than failing the whole page.
func Extract(html string, site config.Site) (*models.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse html: %w", err)
	}

	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: base url %q: %w", site.BaseURL, err)
	}

	out := &models.Extraction{}
	doc.Find(site.Selectors.Card).Each(func(i int, card *goquery.Selection) {
		p, reason, err := extractCard(card, site.Selectors, base)
		if err != nil {
			out.Skipped = append(out.Skipped, models.SkippedCard{Index: i, Reason: reason, Err: err})
			return
		}
		out.Products = append(out.Products, p)
	})

	return out, nil
}

func extractCard(card *goquery.Selection, sel config.Selectors, base *url.URL) (models.Product, string, error) {
	title := card.Find(sel.Title).First()
	price := card.Find(sel.Price).First()
	comparison := card.Find(sel.Comparison).First()

	switch {
	case title.Length() == 0:
		return models.Product{}, ReasonMissingField, fmt.Errorf("%w: title (%s)", ErrMissingField, sel.Title)
	case price.Length() == 0:
		return models.Product{}, ReasonMissingField, fmt.Errorf("%w: price (%s)", ErrMissingField, sel.Price)
	case comparison.Length() == 0:
		return models.Product{}, ReasonMissingField, fmt.Errorf("%w: price comparison (%s)", ErrMissingField, sel.Comparison)
	}

	href, ok := card.Find(sel.Link).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.Product{}, ReasonMissingField, fmt.Errorf("%w: link (%s)", ErrMissingField, sel.Link)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return models.Product{}, ReasonParseError, fmt.Errorf("link %q: %w", href, err)
	}

	current, err := services.ParseCurrentPrice(price.Text(), sel.PriceMarker)
	if err != nil {
		return models.Product{}, ReasonParseError, err
	}
	original, err := services.ParseOriginalPrice(comparison.Text())
	if err != nil {
		return models.Product{}, ReasonParseError, err
	}

	return models.Product{
		Name:          normaliseText(title.Text()),
		CurrentPrice:  current,
		OriginalPrice: original,
		Link:          base.ResolveReference(ref).String(),
	}, "", nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
