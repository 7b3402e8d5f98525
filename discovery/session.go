package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newsorder/scraper"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies newsorder to the listing site.
const DefaultUserAgent = "newsorder/1.0 (listing order check)"

var (
	ErrNoPage          = errors.New("no page loaded")
	ErrControlNotFound = errors.New("control not found")
	ErrControlNoTarget = errors.New("control has no href")
)

// SessionConfig holds the settings of an HTTP session.
type SessionConfig struct {
	UserAgent string
	// RequestInterval is the minimum spacing between two page requests.
	// Zero disables pacing.
	RequestInterval time.Duration
	List            scraper.ListConfig
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Session is a page-at-a-time HTTP "browser" over a listing site. It keeps
// the most recently loaded page as its rendered content. A Session is not
// safe for concurrent use.
type Session struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	list      scraper.ListConfig

	current *url.URL
	body    []byte
	doc     *goquery.Document
	// checks counts visibility checks against the current page.
	checks int
}

// NewSession creates a session. Nothing is fetched until LoadPage.
func NewSession(config SessionConfig) *Session {
	client := config.Client
	if client == nil {
		client = &http.Client{}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if config.RequestInterval > 0 {
		limit = rate.Every(config.RequestInterval)
	}

	return &Session{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		list:      config.List,
	}
}

// CurrentURL returns the URL of the loaded page, or "" before LoadPage.
func (s *Session) CurrentURL() string {
	if s.current == nil {
		return ""
	}
	return s.current.String()
}

// LoadPage fetches rawURL and makes it the current page.
func (s *Session) LoadPage(ctx context.Context, rawURL string) error {
	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	return s.navigate(ctx, target)
}

// ExtractRows reads the entries of the current page.
func (s *Session) ExtractRows(ctx context.Context) ([]RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.doc == nil {
		return nil, ErrNoPage
	}
	return ExtractRows(s.doc, s.list), nil
}

// IsControlVisible reports whether selector matches on the current page.
// After a check that found nothing, the next check re-fetches the current
// page first, so a caller polling with a pause in between sees fresh
// content.
func (s *Session) IsControlVisible(ctx context.Context, selector string) (bool, error) {
	if s.doc == nil {
		return false, ErrNoPage
	}

	if s.checks > 0 {
		body, doc, err := s.fetch(ctx, s.current)
		if err != nil {
			return false, err
		}
		s.body, s.doc = body, doc
	}
	s.checks++

	return s.doc.Find(selector).Length() > 0, nil
}

// ActivateControl follows the href of the first element matching selector
// and makes the result the current page.
func (s *Session) ActivateControl(ctx context.Context, selector string) error {
	if s.doc == nil {
		return ErrNoPage
	}

	control := s.doc.Find(selector).First()
	if control.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrControlNotFound, selector)
	}

	href := strings.TrimSpace(control.AttrOr("href", ""))
	if href == "" {
		return fmt.Errorf("%w: %s", ErrControlNoTarget, selector)
	}

	ref, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("invalid control href %q: %w", href, err)
	}

	return s.navigate(ctx, s.current.ResolveReference(ref))
}

// CaptureScreenshot writes the current page's HTML to path. It is the
// diagnostic artifact an HTTP session can offer in place of an image.
func (s *Session) CaptureScreenshot(_ context.Context, path string) error {
	if s.body == nil {
		return ErrNoPage
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	if err := os.WriteFile(path, s.body, 0o644); err != nil {
		return fmt.Errorf("failed to write page capture: %w", err)
	}

	return nil
}

func (s *Session) navigate(ctx context.Context, target *url.URL) error {
	body, doc, err := s.fetch(ctx, target)
	if err != nil {
		return err
	}

	s.current = target
	s.body = body
	s.doc = doc
	s.checks = 0

	return nil
}

// fetch requests target and parses the response as HTML.
func (s *Session) fetch(ctx context.Context, target *url.URL) ([]byte, *goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return body, doc, nil
}
