// Package browser owns the headless browser session a source adapter scrapes
// through. One Session per adapter: it is acquired at adapter construction,
// never shared, and released on adapter teardown.
package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const defaultNavigationTimeout = 30 * time.Second

// Session wraps a playwright browser with a single page used for serial
// scraping. The zero value is not usable; construct with NewSession.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	logger  *zap.Logger
}

// NewSession starts playwright and launches a headless chromium instance.
func NewSession(logger *zap.Logger) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	page.SetDefaultTimeout(float64(defaultNavigationTimeout.Milliseconds()))

	return &Session{pw: pw, browser: b, page: page, logger: logger}, nil
}

// Open navigates the session page to the given URL and waits for the
// document to load.
func (s *Session) Open(url string) (playwright.Page, error) {
	s.logger.Debug("opening page", zap.String("url", url))

	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, fmt.Errorf("opening %s: %w", url, err)
	}

	return s.page, nil
}

// Page returns the current session page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close releases the browser and the playwright driver. Safe to call once,
// typically deferred right after NewSession.
func (s *Session) Close() error {
	var firstErr error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			firstErr = fmt.Errorf("closing browser: %w", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stopping playwright: %w", err)
		}
	}
	return firstErr
}
