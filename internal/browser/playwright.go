package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Options configures one browser session.
type Options struct {
	Headless    bool
	PageTimeout time.Duration
	UserAgent   string
	Cookies     []playwright.OptionalCookie
}

// PlaywrightManager owns a playwright driver and one chromium instance.
// Each adapter run gets its own manager and must Close it.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// NewPlaywright starts the driver and launches chromium.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--disable-extensions",
			"--disable-blink-features=AutomationControlled",
			"--window-size=1920,1080",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &PlaywrightManager{pw: pw, browser: b, opts: opts}, nil
}

// NewContext opens an isolated browser context with realistic fingerprints
// and the manager's cookies.
func (pm *PlaywrightManager) NewContext() (playwright.BrowserContext, error) {
	ctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(pm.opts.UserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		Locale:    playwright.String("en-US"),
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
			"DNT":             "1",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if pm.opts.PageTimeout > 0 {
		ctx.SetDefaultNavigationTimeout(float64(pm.opts.PageTimeout.Milliseconds()))
	}
	if len(pm.opts.Cookies) > 0 {
		if err := ctx.AddCookies(pm.opts.Cookies); err != nil {
			_ = ctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return ctx, nil
}

// NewPage opens a context and a page in it. Closing the returned context
// also closes the page.
func (pm *PlaywrightManager) NewPage() (playwright.BrowserContext, playwright.Page, error) {
	ctx, err := pm.NewContext()
	if err != nil {
		return nil, nil, err
	}
	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, nil, fmt.Errorf("could not create page: %w", err)
	}
	return ctx, page, nil
}

// Goto navigates with the page-load ceiling and treats a non-2xx main
// response as a failure.
func (pm *PlaywrightManager) Goto(page playwright.Page, url string) error {
	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(pm.opts.PageTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if resp != nil && (resp.Status() < 200 || resp.Status() >= 300) {
		return fmt.Errorf("navigate %s: status %d", url, resp.Status())
	}
	return nil
}

// Close shuts down chromium and the driver.
func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}
