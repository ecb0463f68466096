package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultHeaders are sent on every request so the session looks like a
// regular desktop browser.
var DefaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Cache-Control":             "max-age=0",
}

// Error describes a failed page fetch. StatusCode is zero for transport errors.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsStatus reports whether err is a fetch error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.StatusCode == status
}

// Session is a cookie-preserving HTTP client with browser-like headers.
type Session struct {
	hc      *http.Client
	headers map[string]string
	limiter *HostLimiter
}

// NewSession builds a session with the given per-request timeout. A nil
// limiter disables rate limiting.
func NewSession(timeout time.Duration, limiter *HostLimiter) *Session {
	jar, _ := cookiejar.New(nil)
	headers := make(map[string]string, len(DefaultHeaders))
	for k, v := range DefaultHeaders {
		headers[k] = v
	}
	return &Session{
		hc:      &http.Client{Timeout: timeout, Jar: jar},
		headers: headers,
		limiter: limiter,
	}
}

// SetCookies seeds the jar for the host of rawURL.
func (s *Session) SetCookies(rawURL string, cookies map[string]string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	list := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		list = append(list, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	s.hc.Jar.SetCookies(u, list)
	return nil
}

// Get fetches rawURL and returns the body. Any non-2xx status is an *Error.
func (s *Session) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, rawURL); err != nil {
			return nil, &Error{URL: rawURL, Message: "rate limiter", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &Error{URL: rawURL, StatusCode: res.StatusCode, Message: fmt.Sprintf("status %d", res.StatusCode)}
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read body", Cause: err}
	}
	return body, nil
}

// Document fetches rawURL and parses it as HTML.
func (s *Session) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	res, err := s.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}
