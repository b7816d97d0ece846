// Package parlamento loads the Portuguese Parliament initiatives export,
// downloading it when needed and otherwise reading the local copy.
package parlamento

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/paulstuart/gollm/parlamento/pkg/cache"
	"github.com/paulstuart/gollm/parlamento/pkg/config"
	"github.com/paulstuart/gollm/parlamento/pkg/fetcher"
	"github.com/paulstuart/gollm/parlamento/pkg/metrics"
	"github.com/paulstuart/gollm/parlamento/pkg/model"
)

// Fetcher retrieves the raw export.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader resolves the dataset from the network or the cache.
type Loader struct {
	URL       string
	CachePath string
	Fetcher   Fetcher
	Metrics   *metrics.Metrics
}

// NewLoader builds a Loader from configuration.
func NewLoader(cfg config.Config, m *metrics.Metrics) *Loader {
	return &Loader{
		URL:       cfg.Source.URL,
		CachePath: cfg.Cache.Path,
		Fetcher: fetcher.New(fetcher.Options{
			UserAgent:    cfg.Source.UserAgent,
			Timeout:      cfg.Source.Timeout,
			MaxRetries:   cfg.Source.MaxRetries,
			Backoff:      cfg.Source.Backoff,
			MaxBackoff:   cfg.Source.MaxBackoff,
			MaxBodyBytes: cfg.Source.MaxBodyBytes,
		}),
		Metrics: m,
	}
}

// Load returns the initiatives. The export is downloaded when forceUpdate is
// set or no cached copy exists; a failed download falls back to the cached copy
// when there is one.
func (l *Loader) Load(ctx context.Context, forceUpdate bool) ([]model.Initiative, error) {
	if forceUpdate || !cache.Exists(l.CachePath) {
		initiatives, err := l.download(ctx)
		if err == nil {
			return initiatives, nil
		}
		if !cache.Exists(l.CachePath) {
			return nil, err
		}
		log.Printf("Warning: %v; falling back to cached data", err)
	}

	log.Printf("Using existing data file at %s", l.CachePath)
	b, err := cache.Read(l.CachePath)
	if err != nil {
		return nil, err
	}
	initiatives, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("cached data at %s: %w", l.CachePath, err)
	}
	if l.Metrics != nil {
		l.Metrics.CacheReads.Inc()
	}
	l.loaded(initiatives)
	return initiatives, nil
}

func (l *Loader) download(ctx context.Context) ([]model.Initiative, error) {
	log.Println("Downloading JSON data from Parlamento...")
	b, err := l.Fetcher.Fetch(ctx, l.URL)
	if err != nil {
		l.fetchFailed()
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	initiatives, err := Decode(b)
	if err != nil {
		l.fetchFailed()
		return nil, fmt.Errorf("downloaded data is not valid: %w", err)
	}
	if l.Metrics != nil {
		l.Metrics.FetchSucceeded()
	}

	if err := cache.Write(l.CachePath, b); err != nil {
		log.Printf("Warning: could not save data: %v", err)
	} else {
		log.Printf("JSON data successfully saved to %s", l.CachePath)
	}
	log.Printf("Downloaded data contains %d initiatives", len(initiatives))
	l.loaded(initiatives)
	return initiatives, nil
}

func (l *Loader) fetchFailed() {
	if l.Metrics != nil {
		l.Metrics.FetchFailed()
	}
}

func (l *Loader) loaded(initiatives []model.Initiative) {
	if l.Metrics == nil {
		return
	}
	votes := 0
	for _, ini := range initiatives {
		votes += ini.VoteCount()
	}
	l.Metrics.Loaded(len(initiatives), votes)
}

// Decode parses the export: a JSON array of initiatives. Every initiative must
// carry an identifier.
func Decode(b []byte) ([]model.Initiative, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	var initiatives []model.Initiative
	if err := json.Unmarshal(b, &initiatives); err != nil {
		return nil, fmt.Errorf("decode initiatives: %w", err)
	}
	for i, ini := range initiatives {
		if ini.ID == "" {
			return nil, fmt.Errorf("initiative %d: %w", i+1, ErrMissingID)
		}
	}
	return initiatives, nil
}

// ErrMissingID marks a record without the IniId identifier.
var ErrMissingID = errors.New("missing IniId")
