package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"clearance-scraper/config"
	"clearance-scraper/utils"
)

// ErrNavigation marks failures to load the target page. Only these are retried.
var ErrNavigation = errors.New("navigation failed")

// NavigationError wraps the driver error for a failed navigation.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

func (e *NavigationError) Is(target error) bool { return target == ErrNavigation }

// Page is a fully loaded listing page.
type Page struct {
	URL         string
	HTML        string
	Scrolls     int
	FinalHeight int64
	Stable      bool
}

// Browser owns one headless Chrome process. Acquire it with NewBrowser and
// release it with Close; nothing else holds a reference to the process.
type Browser struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig

	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

// NewBrowser launches Chrome from cfg.DriverPath (or $PATH when empty).
func NewBrowser(cfg *config.Config, logger *utils.Logger) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if cfg.DriverPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.DriverPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// An empty Run starts the process so a bad driver path fails here.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("scraper: launch browser %q: %w", cfg.DriverPath, err)
	}

	logger.Info("[scraper] browser started (binary: %s, headless: %t)", displayPath(cfg.DriverPath), cfg.Headless)

	return &Browser{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
			Retryable:   func(err error) bool { return errors.Is(err, ErrNavigation) },
		},
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *Browser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = chromedp.Cancel(b.ctx)
		b.cancelCtx()
		b.cancelAlloc()
		b.logger.Info("[scraper] browser closed")
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// LoadPage navigates to url, waits for the client-side render, scrolls until
// the page height settles and returns the rendered document.
func (b *Browser) LoadPage(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	// The first Run on a tab starts its event loop on the context it is given,
	// so it must not be a short-lived timeout child.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, contextErr(ctx, fmt.Errorf("scraper: open tab: %w", err))
	}

	b.logger.Info("[scraper] loading %s", url)
	err := b.retry.Do(ctx, "navigate", func(context.Context) error {
		navCtx, cancel := context.WithTimeout(tabCtx, b.cfg.PageTimeout())
		defer cancel()
		if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
			return &NavigationError{URL: url, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, contextErr(ctx, err)
	}

	// Pop-ups and the product grid render after load; give them time.
	b.logger.Info("[scraper] waiting %v for dynamic content", b.cfg.InitialSleep())
	if err := utils.Sleep(tabCtx, b.cfg.InitialSleep()); err != nil {
		return nil, contextErr(ctx, err)
	}

	res, err := scrollUntilStable(tabCtx, chromeDriver{}, scrollOptions{
		Sleep:      b.cfg.ScrollSleep(),
		MaxScrolls: b.cfg.MaxScrolls,
		Timeout:    b.cfg.ScrollTimeout(),
	}, b.logger)
	if err != nil {
		return nil, contextErr(ctx, fmt.Errorf("scraper: scroll: %w", err))
	}
	b.logger.Info("[scraper] done scrolling after %d scrolls (height %d, stable: %t)", res.Scrolls, res.Height, res.Stable)

	var html string
	htmlCtx, cancel := context.WithTimeout(tabCtx, b.cfg.PageTimeout())
	defer cancel()
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, contextErr(ctx, fmt.Errorf("scraper: read page source: %w", err))
	}

	return &Page{
		URL:         url,
		HTML:        html,
		Scrolls:     res.Scrolls,
		FinalHeight: res.Height,
		Stable:      res.Stable,
	}, nil
}

// chromeDriver runs the scroll primitives in the tab carried by ctx.
type chromeDriver struct{}

func (chromeDriver) ScrollHeight(ctx context.Context) (int64, error) {
	var h int64
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &h)); err != nil {
		return 0, fmt.Errorf("measure scroll height: %w", err)
	}
	return h, nil
}

func (chromeDriver) ScrollToBottom(ctx context.Context) error {
	if err := chromedp.Run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil)); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

// contextErr prefers the caller's cancellation over the driver's view of it.
func contextErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func displayPath(p string) string {
	if p == "" {
		return "$PATH lookup"
	}
	return p
}
