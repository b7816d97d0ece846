// Package fetcher downloads the raw initiatives export.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "gollm-parlamento/1.0 (+https://github.com/paulstuart/gollm/parlamento)"

// Options controls a Fetcher.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	Backoff      time.Duration
	MaxBackoff   time.Duration
	MaxBodyBytes int // 0 means unlimited
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status code %d", e.URL, e.StatusCode)
}

// Fetcher retrieves a URL body with retries.
type Fetcher struct {
	opts Options
}

// New returns a Fetcher.
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &Fetcher{opts: opts}
}

// Fetch returns the body served at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	attempt := 0
	err := retry(ctx, f.opts.MaxRetries, f.opts.Backoff, f.opts.MaxBackoff, func() error {
		attempt++
		b, err := f.fetchOnce(ctx, rawURL)
		if err != nil {
			log.Printf("fetch attempt %d/%d for %s failed: %v", attempt, f.opts.MaxRetries, rawURL, err)
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.UserAgent(f.opts.UserAgent),
		colly.MaxBodySize(f.opts.MaxBodyBytes),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	if f.opts.Timeout > 0 {
		c.SetRequestTimeout(f.opts.Timeout)
	}

	var (
		body    []byte
		respErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			respErr = &StatusError{URL: rawURL, StatusCode: r.StatusCode}
			return
		}
		respErr = err
	})

	if err := c.Visit(rawURL); err != nil && respErr == nil {
		respErr = err
	}
	c.Wait()

	if respErr != nil {
		return nil, respErr
	}
	if body == nil {
		return nil, errors.New("fetch " + rawURL + ": empty response")
	}
	return body, nil
}

// retry runs fn up to attempts times, doubling the wait between attempts up to max.
func retry(ctx context.Context, attempts int, initial, max time.Duration, fn func() error) error {
	d := initial
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
			if d < max {
				d *= 2
				if d > max {
					d = max
				}
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
