package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clearance-scraper/config"
	"clearance-scraper/scraper"
	"clearance-scraper/services"
	"clearance-scraper/storage"
	"clearance-scraper/utils"
)

func newRootCommand() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:           "clearance-scraper",
		Short:         "Scrape a retail clearance listing into a CSV file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := utils.NewLogger(cfg.LogLevel).With("run_id", uuid.NewString()[:8])
			return run(ctx, cfg, logger)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.Website, "website", cfg.Website, "Website to scrape (one of: "+strings.Join(config.SiteKeys(), ", ")+")")
	flags.StringVar(&cfg.DriverPath, "driver_path", cfg.DriverPath, "Path to the Chrome/Chromium executable")
	flags.StringVar(&cfg.Filename, "filename", cfg.Filename, "Output CSV path")
	flags.IntVar(&cfg.InitialSleepSec, "initial_sleep", cfg.InitialSleepSec, "Seconds to wait after navigation for dynamic content")
	flags.IntVar(&cfg.ScrollSleepSec, "scroll_sleep", cfg.ScrollSleepSec, "Seconds to wait after each scroll")
	flags.IntVar(&cfg.MaxScrolls, "max_scrolls", cfg.MaxScrolls, "Maximum scroll attempts before giving up on a stable page height")
	flags.IntVar(&cfg.ScrollTimeoutSec, "scroll_timeout", cfg.ScrollTimeoutSec, "Overall seconds allowed for scrolling")
	flags.IntVar(&cfg.PageTimeoutSec, "page_timeout", cfg.PageTimeoutSec, "Seconds allowed for navigation and reading the page source")
	flags.IntVar(&cfg.MaxRetries, "max_retries", cfg.MaxRetries, "Navigation attempts before failing")
	flags.Float64Var(&cfg.MinPriceRatio, "min_price_ratio", cfg.MinPriceRatio, "Keep only products whose original/current price ratio is at least this (0 keeps all)")
	flags.StringVar(&cfg.SortMode, "sort", cfg.SortMode, fmt.Sprintf("Price ordering: %s (raw string) or %s", config.SortLexical, config.SortNumeric))
	flags.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run the browser without a window")
	flags.StringVar(&cfg.LogLevel, "log_level", cfg.LogLevel, "Log level: debug, info, warn, error")

	return rootCmd
}

// run acquires the browser for the duration of one scrape and hands off to
// the pipeline.
func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	site, err := config.LookupSite(cfg.Website)
	if err != nil {
		return err
	}

	logger.Info("=== Clearance scraper starting: %s ===", site.Name)
	logger.Info("Config: initial sleep %v | scroll sleep %v | max scrolls %d | sort %s | output %s",
		cfg.InitialSleep(), cfg.ScrollSleep(), cfg.MaxScrolls, cfg.SortMode, cfg.Filename)

	browser, err := scraper.NewBrowser(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn("Browser did not shut down cleanly: %v", err)
		}
	}()

	p := &pipeline{
		cfg:      cfg,
		site:     site,
		loader:   browser,
		writer:   storage.NewCSVWriter(cfg.Filename),
		insights: services.NewInsightService(logger),
		logger:   logger,
	}
	summary, err := p.run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(p.insights.Render(summary))
	return nil
}
