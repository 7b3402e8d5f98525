// Package paginate collects listing items across "load more" navigation
// until a target count is reached.
package paginate

import (
	"context"
	"fmt"
	"time"

	"github.com/pevans/newsorder/discovery"
	"github.com/pevans/newsorder/logger"
	"github.com/pevans/newsorder/newsfeed"
	"github.com/pevans/newsorder/scraper"
)

// Config holds the collection bounds.
type Config struct {
	// Target is the number of items to collect.
	Target int
	// MaxHops bounds the number of pages extracted. The initial page is the
	// first hop.
	MaxHops int
	// Timeout bounds each individual page interaction.
	Timeout time.Duration
	// MoreSelector matches the "load more" control.
	MoreSelector string
	Retry        RetryPolicy
}

// DefaultConfig returns the default collection bounds.
func DefaultConfig() *Config {
	return &Config{
		Target:       100,
		MaxHops:      10,
		Timeout:      30 * time.Second,
		MoreSelector: scraper.NewListConfig().MoreSelector,
		Retry:        DefaultRetryPolicy(),
	}
}

// Collection is the outcome of a collection run. On success Items holds
// exactly Target items.
type Collection struct {
	Items []newsfeed.Item
	Hops  int
}

// Collector drives a Browser page by page and owns the collection buffer
// for the duration of Collect.
type Collector struct {
	browser Browser
	config  *Config
	sleeper Sleeper
	now     func() time.Time
	log     logger.Interface
}

// NewCollector creates a collector. A nil config uses DefaultConfig and a
// nil log discards output.
func NewCollector(browser Browser, config *Config, log logger.Interface) *Collector {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Collector{
		browser: browser,
		config:  config,
		sleeper: TimerSleeper,
		now:     time.Now,
		log:     log,
	}
}

// SetSleeper replaces the sleeper used between visibility checks.
func (c *Collector) SetSleeper(sleeper Sleeper) {
	c.sleeper = sleeper
}

// SetClock replaces the time source used to resolve relative ages.
func (c *Collector) SetClock(now func() time.Time) {
	c.now = now
}

// Collect extracts the current page and advances through the "load more"
// control until Target items are buffered. The browser must already show
// the first page. On failure the returned collection holds what was
// buffered so far.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	target := c.config.Target
	result := &Collection{Items: make([]newsfeed.Item, 0, target)}

	for {
		rows, err := c.extract(ctx)
		if err != nil {
			return result, err
		}
		result.Hops++

		before := len(result.Items)
		for item := range discovery.Items(rows, c.now()) {
			if len(result.Items) >= target {
				break
			}
			result.Items = append(result.Items, item)
		}

		c.log.Debug("Extracted page",
			"hop", result.Hops,
			"rows", len(rows),
			"accepted", len(result.Items)-before,
			"collected", len(result.Items),
		)

		if len(result.Items) >= target {
			return result, nil
		}

		if result.Hops >= c.config.MaxHops {
			return result, &InsufficientItemsError{
				Collected: len(result.Items),
				Target:    target,
				Reason:    fmt.Sprintf("hop ceiling of %d reached", c.config.MaxHops),
			}
		}

		visible, err := c.waitForControl(ctx)
		if err != nil {
			return result, err
		}
		if !visible {
			return result, &InsufficientItemsError{
				Collected: len(result.Items),
				Target:    target,
				Reason:    "load more control not visible",
			}
		}

		if err := c.advance(ctx); err != nil {
			return result, err
		}
	}
}

func (c *Collector) extract(ctx context.Context) ([]discovery.RawRow, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	rows, err := c.browser.ExtractRows(opCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract rows: %w", ClassifyTimeout(opCtx, OpExtraction, err))
	}
	return rows, nil
}

// waitForControl polls the control's visibility under the retry policy.
// Each check gets its own timeout.
func (c *Collector) waitForControl(ctx context.Context) (bool, error) {
	visible, attempts, err := c.config.Retry.Poll(ctx, c.sleeper, func(ctx context.Context) (bool, error) {
		opCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		ok, err := c.browser.IsControlVisible(opCtx, c.config.MoreSelector)
		return ok, ClassifyTimeout(opCtx, OpVisibility, err)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check load more control: %w", err)
	}

	if attempts > 1 {
		c.log.Debug("Load more control polled", "attempts", attempts, "visible", visible)
	}

	return visible, nil
}

func (c *Collector) advance(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.browser.ActivateControl(opCtx, c.config.MoreSelector); err != nil {
		return fmt.Errorf("failed to load more items: %w", ClassifyTimeout(opCtx, OpNavigation, err))
	}
	return nil
}
