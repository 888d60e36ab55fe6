package scraper

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance-scraper/config"
	"clearance-scraper/models"
	"clearance-scraper/services"
)

func marshalls(t *testing.T) config.Site {
	t.Helper()
	site, err := config.LookupSite("marshalls")
	require.NoError(t, err)
	return site
}

func card(title, price, comparison, href string) string {
	var b strings.Builder
	b.WriteString(`<div class="product-details equal-height-cell">`)
	if href != "" {
		fmt.Fprintf(&b, `<a class="product-link" href="%s">`, href)
	}
	if title != "" {
		fmt.Fprintf(&b, `<span class="product-title">%s</span>`, title)
	}
	if href != "" {
		b.WriteString(`</a>`)
	}
	if price != "" {
		fmt.Fprintf(&b, `<span class="product-price">%s</span>`, price)
	}
	if comparison != "" {
		fmt.Fprintf(&b, `<span class="price-comparison">%s</span>`, comparison)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func page(cards ...string) string {
	return `<html><body><div class="product-grid">` + strings.Join(cards, "\n") + `</div></body></html>`
}

func TestExtractWellFormedCards(t *testing.T) {
	html := page(
		card("  Wool   Coat\n", `<span class="sr">ada.originalPriceLabel $200.00</span> ada.newPriceLabel $49.99 `, "Compare At $200.00 ", "/us/store/jump/product/coat/1"),
		card("Brass Lamp", "ada.newPriceLabel\n $1,020.00", "Compare At\n $1,500.00", "https://www.marshalls.com/us/store/jump/product/lamp/2"),
		card("Rug", "ada.newPriceLabel $9.99", "Compare At $30", "us/store/jump/product/rug/3"),
	)

	got, err := Extract(html, marshalls(t))
	require.NoError(t, err)
	require.Empty(t, got.Skipped)

	assert.Equal(t, []models.Product{
		{Name: "Wool Coat", CurrentPrice: "49.99", OriginalPrice: "200.00", Link: "https://www.marshalls.com/us/store/jump/product/coat/1"},
		{Name: "Brass Lamp", CurrentPrice: "1,020.00", OriginalPrice: "1,500.00", Link: "https://www.marshalls.com/us/store/jump/product/lamp/2"},
		{Name: "Rug", CurrentPrice: "9.99", OriginalPrice: "30", Link: "https://www.marshalls.com/us/store/jump/product/rug/3"},
	}, got.Products)
}

func TestExtractSkipsIncompleteCards(t *testing.T) {
	html := page(
		card("Keep", "ada.newPriceLabel $5.00", "Compare At $10.00", "/p/1"),
		card("", "ada.newPriceLabel $5.00", "Compare At $10.00", "/p/2"),
		card("No Price", "", "Compare At $10.00", "/p/3"),
		card("No Comparison", "ada.newPriceLabel $5.00", "", "/p/4"),
		card("No Link", "ada.newPriceLabel $5.00", "Compare At $10.00", ""),
	)

	got, err := Extract(html, marshalls(t))
	require.NoError(t, err)

	require.Len(t, got.Products, 1)
	assert.Equal(t, "Keep", got.Products[0].Name)

	require.Len(t, got.Skipped, 4)
	for i, s := range got.Skipped {
		assert.Equal(t, i+1, s.Index)
		assert.Equal(t, ReasonMissingField, s.Reason)
		assert.True(t, errors.Is(s.Err, ErrMissingField), s.Err)
	}
}

func TestExtractReportsPriceParseErrors(t *testing.T) {
	html := page(
		card("Sold Out Jacket", "ada.newPriceLabel Sold out", "Compare At $80.00", "/p/1"),
		card("Mystery Box", "ada.newPriceLabel $12.00", "Compare At", "/p/2"),
		card("Good", "ada.newPriceLabel $12.00", "Compare At $24.00", "/p/3"),
	)

	got, err := Extract(html, marshalls(t))
	require.NoError(t, err)

	require.Len(t, got.Products, 1)
	require.Len(t, got.Skipped, 2)
	for _, s := range got.Skipped {
		assert.Equal(t, ReasonParseError, s.Reason)
		assert.ErrorIs(t, s.Err, services.ErrNoPrice)
	}
}

func TestExtractNoCards(t *testing.T) {
	got, err := Extract(`<html><body><p>Access denied</p></body></html>`, marshalls(t))
	require.NoError(t, err)
	assert.Empty(t, got.Products)
	assert.Empty(t, got.Skipped)
}

func TestNormaliseText(t *testing.T) {
	assert.Equal(t, "a b c", normaliseText("\n  a\tb   c  "))
	assert.Equal(t, "", normaliseText("   "))
}
