// Package collyfetcher implements preview.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkpreview/internal/metrics"
	"github.com/JakeFAU/linkpreview/internal/preview"
)

const (
	defaultTimeout = 15 * time.Second
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Config controls collector behavior. It is fixed at construction.
type Config struct {
	// UserAgent is sent when a request does not carry its own.
	UserAgent string
	Timeout   time.Duration
	// MaxBodyBytes caps the response body; zero means unlimited.
	MaxBodyBytes int
}

// Fetcher implements preview.Fetcher using the Colly collector. One Fetcher is
// shared by every request; each call works on its own clone of the base
// collector and never touches the base.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

var _ preview.Fetcher = (*Fetcher)(nil)

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher with a pooled, traced transport.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = preview.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes < 0 {
		cfg.MaxBodyBytes = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(cfg.MaxBodyBytes),
	)
	// Transport, timeout and cookie jar live on the backend that every clone
	// shares, so they are set here once and never per request.
	c.WithTransport(otelhttp.NewTransport(newHTTPTransport()))
	c.SetRequestTimeout(cfg.Timeout)
	c.DisableCookies()

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET using Colly. Transport errors and non-2xx
// responses are both returned as errors; the latter wrap preview.ErrUpstreamStatus.
func (f *Fetcher) Fetch(ctx context.Context, request preview.FetchRequest) (preview.FetchResponse, error) {
	var (
		result   preview.FetchResponse
		fetchErr error
	)
	start := time.Now()
	collector := f.buildCollector(ctx, request)
	f.configureCollectorHooks(collector, start, &result, &fetchErr)

	if err := f.runCollector(ctx, collector, request.URL, &fetchErr); err != nil {
		f.logger.Debug("fetch failed", zap.String("url", request.URL), zap.Error(err))
		return preview.FetchResponse{}, err
	}
	metrics.ObserveFetch(request.URL, result.Duration, len(result.Body))

	if result.StatusCode < http.StatusOK || result.StatusCode >= http.StatusMultipleChoices {
		return preview.FetchResponse{}, fmt.Errorf("%w: %d %s",
			preview.ErrUpstreamStatus, result.StatusCode, http.StatusText(result.StatusCode))
	}
	return result, nil
}

// UserAgent returns the identification string used when a request has none.
func (f *Fetcher) UserAgent() string {
	return f.cfg.UserAgent
}

func (f *Fetcher) buildCollector(ctx context.Context, request preview.FetchRequest) *colly.Collector {
	collector := f.baseCollector.Clone()
	collector.UserAgent = f.userAgentFor(request)
	collector.Context = ctx
	return collector
}

func (f *Fetcher) userAgentFor(request preview.FetchRequest) string {
	if request.UserAgent != "" {
		return request.UserAgent
	}
	return f.cfg.UserAgent
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	start time.Time,
	result *preview.FetchResponse,
	fetchErr *error,
) {
	hooks.OnRequest(func(r *colly.Request) {
		if r.Headers.Get("Accept") == "" || r.Headers.Get("Accept") == "*/*" {
			r.Headers.Set("Accept", acceptHTML)
		}
	})

	hooks.OnResponse(func(r *colly.Response) {
		finalURL := ""
		if r.Request != nil && r.Request.URL != nil {
			finalURL = r.Request.URL.String()
		}
		var headers http.Header
		if r.Headers != nil {
			headers = r.Headers.Clone()
		}
		*result = preview.FetchResponse{
			URL:        finalURL,
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
}
