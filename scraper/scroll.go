package scraper

import (
	"context"
	"errors"
	"time"

	"clearance-scraper/utils"
)

// pageDriver is the slice of browser behaviour the scroll loop needs.
type pageDriver interface {
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
}

type scrollOptions struct {
	Sleep      time.Duration
	MaxScrolls int
	Timeout    time.Duration
}

type scrollResult struct {
	Scrolls int
	Height  int64
	Stable  bool
}

// scrollUntilStable scrolls to the bottom until two consecutive height
// measurements match. Hitting MaxScrolls or Timeout is not an error: the
// result comes back with Stable=false and whatever has rendered so far is
// still usable. Cancelling ctx returns ctx.Err().
func scrollUntilStable(ctx context.Context, d pageDriver, opts scrollOptions, logger *utils.Logger) (scrollResult, error) {
	var res scrollResult

	loopCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	stopped := func(err error) (scrollResult, error) {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if errors.Is(loopCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("[scraper] scroll timeout %v reached after %d scrolls, page height %d not stable",
				opts.Timeout, res.Scrolls, res.Height)
			return res, nil
		}
		return res, err
	}

	last, err := d.ScrollHeight(loopCtx)
	if err != nil {
		return stopped(err)
	}
	res.Height = last

	for res.Scrolls < opts.MaxScrolls {
		res.Scrolls++
		logger.Debug("[scraper] scrolling %d (height %d)", res.Scrolls, last)

		if err := d.ScrollToBottom(loopCtx); err != nil {
			return stopped(err)
		}
		if err := utils.Sleep(loopCtx, opts.Sleep); err != nil {
			return stopped(err)
		}

		height, err := d.ScrollHeight(loopCtx)
		if err != nil {
			return stopped(err)
		}
		res.Height = height

		if height == last {
			res.Stable = true
			return res, nil
		}
		last = height
	}

	logger.Warn("[scraper] gave up after %d scrolls, page height %d still changing", res.Scrolls, res.Height)
	return res, nil
}
