package main

import (
	"context"
	"errors"
	"fmt"

	"clearance-scraper/config"
	"clearance-scraper/models"
	"clearance-scraper/scraper"
	"clearance-scraper/services"
	"clearance-scraper/storage"
	"clearance-scraper/utils"
)

type pageLoader interface {
	LoadPage(ctx context.Context, url string) (*scraper.Page, error)
}

// pipeline is one scrape: load, extract, filter, sort, export.
type pipeline struct {
	cfg      *config.Config
	site     config.Site
	loader   pageLoader
	writer   storage.ProductWriter
	insights *services.InsightService
	logger   *utils.Logger
}

func (p *pipeline) run(ctx context.Context) (*models.Summary, error) {
	page, err := p.loader.LoadPage(ctx, p.site.URL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.site.Key, err)
	}
	if !page.Stable {
		p.logger.Warn("Page height never settled after %d scrolls; results may be partial", page.Scrolls)
	}

	extraction, err := scraper.Extract(page.HTML, p.site)
	if err != nil {
		return nil, err
	}
	for _, s := range extraction.Skipped {
		p.logger.Warn("[extract] card %d skipped (%s): %v", s.Index, s.Reason, s.Err)
	}
	p.logger.Info("Extracted %d products (%d cards skipped)", len(extraction.Products), len(extraction.Skipped))

	products := services.FilterByRatio(extraction.Products, p.cfg.MinPriceRatio)
	if dropped := len(extraction.Products) - len(products); dropped > 0 {
		p.logger.Info("Dropped %d products below price ratio %.2f", dropped, p.cfg.MinPriceRatio)
	}

	products, err = services.SortProducts(products, p.cfg.SortMode)
	if err != nil {
		return nil, err
	}

	if err := p.writer.Write(products); err != nil {
		if errors.Is(err, storage.ErrNoProducts) {
			p.logger.Error("No products were scraped. Nothing written.")
		}
		return nil, err
	}
	p.logger.Info("Saved %d products to %s", len(products), p.writer.Path())

	return p.insights.Generate(products), nil
}
