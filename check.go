// Package newsorder checks that a listing page shows its items newest to
// oldest. A Checker loads the listing, collects a fixed number of items
// across "load more" pages and validates their order once.
package newsorder

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsorder/config"
	"github.com/pevans/newsorder/logger"
	"github.com/pevans/newsorder/newsfeed"
	"github.com/pevans/newsorder/paginate"
	"github.com/pevans/newsorder/report"
	"github.com/pevans/newsorder/validate"
)

// Result describes one run. Verdict is nil when Err is set.
type Result struct {
	RunID          uuid.UUID
	StartURL       string
	Target         int
	StartedAt      time.Time
	FinishedAt     time.Time
	Items          []newsfeed.Item
	Hops           int
	Verdict        *validate.Verdict
	Err            error
	ScreenshotPath string
}

// Passed reports whether the run reached a passing verdict.
func (r *Result) Passed() bool {
	return r.Err == nil && r.Verdict != nil && r.Verdict.Pass
}

// ExitCode maps the run outcome to a process exit status.
func (r *Result) ExitCode() int {
	switch {
	case r.Err != nil:
		return ExitCode(r.Err)
	case r.Verdict == nil:
		return ExitError
	case !r.Verdict.Pass:
		return ExitOrderViolation
	default:
		return ExitPass
	}
}

// Report converts the result for the report writers.
func (r *Result) Report() report.Run {
	run := report.Run{
		ID:         r.RunID.String(),
		StartURL:   r.StartURL,
		Target:     r.Target,
		Hops:       r.Hops,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Verdict:    r.Verdict,
		Items:      r.Items,
	}
	if r.Err != nil {
		run.Error = r.Err.Error()
		run.ErrorKind = ErrorKind(r.Err)
	}
	return run
}

// Checker runs the ordering check against a browser.
type Checker struct {
	browser paginate.Browser
	config  config.Config
	log     logger.Interface
	sleeper paginate.Sleeper
	now     func() time.Time
}

// NewChecker creates a checker. cfg is copied and should already be
// validated.
func NewChecker(browser paginate.Browser, cfg config.Config, log logger.Interface) *Checker {
	if log == nil {
		log = logger.NewNop()
	}

	return &Checker{
		browser: browser,
		config:  cfg,
		log:     log,
		sleeper: paginate.TimerSleeper,
		now:     time.Now,
	}
}

// SetSleeper replaces the sleeper used between visibility checks.
func (c *Checker) SetSleeper(sleeper paginate.Sleeper) {
	c.sleeper = sleeper
}

// SetClock replaces the time source.
func (c *Checker) SetClock(now func() time.Time) {
	c.now = now
}

// Run performs one check. The returned result is never nil; when the
// check could not reach a verdict the error is also set on the result.
// An order violation is a completed check and not an error.
func (c *Checker) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.New(),
		StartURL:  c.config.StartURL,
		Target:    c.config.Target,
		StartedAt: c.now(),
	}
	log := c.log.With("run_id", result.RunID.String())

	fail := func(err error) (*Result, error) {
		result.Err = err
		result.ScreenshotPath = c.captureScreenshot(ctx, log, result.RunID)
		result.FinishedAt = c.now()
		log.Error("Check aborted",
			"error", err,
			"kind", ErrorKind(err),
			"collected", len(result.Items),
		)
		return result, err
	}

	log.Info("Starting check",
		"url", c.config.StartURL,
		"target", c.config.Target,
		"max_hops", c.config.MaxHops,
	)

	if err := c.loadStartPage(ctx); err != nil {
		return fail(err)
	}

	collector := paginate.NewCollector(c.browser, &paginate.Config{
		Target:       c.config.Target,
		MaxHops:      c.config.MaxHops,
		Timeout:      c.config.Timeout,
		MoreSelector: c.config.List.MoreSelector,
		Retry: paginate.RetryPolicy{
			MaxAttempts: c.config.RetryAttempts,
			Backoff:     c.config.RetryBackoff,
		},
	}, log)
	collector.SetSleeper(c.sleeper)
	collector.SetClock(c.now)

	collection, err := collector.Collect(ctx)
	if collection != nil {
		result.Items = collection.Items
		result.Hops = collection.Hops
	}
	if err != nil {
		return fail(err)
	}

	verdict := validate.Check(result.Items)
	result.Verdict = &verdict
	result.FinishedAt = c.now()

	if verdict.Pass {
		log.Info("Items are sorted newest to oldest",
			"items", len(result.Items),
			"hops", result.Hops,
		)
	} else {
		log.Warn("Order violation",
			"index", verdict.Index,
			"left_id", verdict.Left.ID,
			"left_time", verdict.Left.ISOTimestamp(),
			"right_id", verdict.Right.ID,
			"right_time", verdict.Right.ISOTimestamp(),
		)
	}

	return result, nil
}

func (c *Checker) loadStartPage(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.browser.LoadPage(opCtx, c.config.StartURL); err != nil {
		err = paginate.ClassifyTimeout(opCtx, paginate.OpNavigation, err)
		return fmt.Errorf("failed to load %s: %w", c.config.StartURL, err)
	}
	return nil
}

// captureScreenshot stores a diagnostic capture of the current page. It is
// best effort: failures are logged and an empty path is returned.
func (c *Checker) captureScreenshot(ctx context.Context, log logger.Interface, runID uuid.UUID) string {
	if c.config.ArtifactsDir == "" {
		return ""
	}

	// The run context may already be done; the capture gets its own budget.
	captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Timeout)
	defer cancel()

	path := filepath.Join(c.config.ArtifactsDir, fmt.Sprintf("failure-%s.html", runID))
	if err := c.browser.CaptureScreenshot(captureCtx, path); err != nil {
		log.Warn("Failed to capture page", "path", path, "error", err)
		return ""
	}

	log.Info("Captured page", "path", path)
	return path
}
