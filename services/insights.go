package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"clearance-scraper/models"
	"clearance-scraper/utils"
)

const (
	topDiscounts = 5
	nameWidth    = 40
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes price statistics over products. Rows whose current price
// does not parse are counted in Total but left out of the price figures.
func (s *InsightService) Generate(products []models.Product) *models.Summary {
	report := &models.Summary{Total: len(products)}
	if len(products) == 0 {
		return report
	}

	var total float64
	var discounts []models.Discount
	for _, p := range products {
		price, err := Amount(p.CurrentPrice)
		if err != nil {
			s.logger.Debug("[insights] skipping unpriced product %q: %v", p.Name, err)
			continue
		}
		if report.Priced == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.Priced == 0 || price > report.MaxPrice {
			report.MaxPrice = price
		}
		report.Priced++
		total += price

		if ratio, ok := DiscountRatio(p); ok {
			discounts = append(discounts, models.Discount{Product: p, Ratio: ratio})
		}
	}

	if report.Priced > 0 {
		report.AveragePrice = round2(total / float64(report.Priced))
	}

	sort.SliceStable(discounts, func(i, j int) bool {
		return discounts[i].Ratio > discounts[j].Ratio
	})
	if len(discounts) > topDiscounts {
		discounts = discounts[:topDiscounts]
	}
	report.TopDiscounts = discounts

	return report
}

// Render formats the summary as two tables: overall price figures and the
// deepest discounts.
func (s *InsightService) Render(r *models.Summary) string {
	var b strings.Builder

	stats := table.NewWriter()
	stats.SetStyle(table.StyleRounded)
	stats.SetTitle("Clearance Summary")
	stats.AppendRow(table.Row{"Products", r.Total})
	if r.Priced > 0 {
		stats.AppendRow(table.Row{"Average price", fmt.Sprintf("$%.2f", r.AveragePrice)})
		stats.AppendRow(table.Row{"Minimum price", fmt.Sprintf("$%.2f", r.MinPrice)})
		stats.AppendRow(table.Row{"Maximum price", fmt.Sprintf("$%.2f", r.MaxPrice)})
	} else {
		stats.AppendRow(table.Row{"Prices", "no price data"})
	}
	stats.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	b.WriteString(stats.Render())
	b.WriteString("\n")

	if len(r.TopDiscounts) == 0 {
		return b.String()
	}

	top := table.NewWriter()
	top.SetStyle(table.StyleRounded)
	top.SetTitle(fmt.Sprintf("Top %d Discounts", len(r.TopDiscounts)))
	top.AppendHeader(table.Row{"#", "Product", "Now", "Was", "Ratio"})
	for i, d := range r.TopDiscounts {
		top.AppendRow(table.Row{
			i + 1,
			displayName(d.Product.Name),
			"$" + d.Product.CurrentPrice,
			"$" + d.Product.OriginalPrice,
			fmt.Sprintf("%.1fx", d.Ratio),
		})
	}
	top.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	b.WriteString(top.Render())
	b.WriteString("\n")

	return b.String()
}

// displayName fits a product name into the discount table's name column.
func displayName(name string) string {
	return text.Snip(name, nameWidth, "...")
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
