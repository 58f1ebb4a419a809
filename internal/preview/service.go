package preview

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkpreview/internal/document"
	"github.com/JakeFAU/linkpreview/internal/metrics"
	"github.com/JakeFAU/linkpreview/internal/resolver"
)

const tracerName = "github.com/JakeFAU/linkpreview/internal/preview"

// FetchRequest describes one outbound page fetch. An empty UserAgent means the
// fetcher's configured default is used.
type FetchRequest struct {
	URL       string
	UserAgent string
}

// FetchResponse is the raw result of a successful fetch.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Fetcher retrieves raw markup. Implementations are shared across concurrent
// requests and must not be reconfigured per call.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (FetchResponse, error)
}

// Previewer produces Metadata for a requested URL.
type Previewer interface {
	Handle(ctx context.Context, rawURL, userAgent string) (Metadata, error)
}

// Service fetches a page, parses it and runs the extraction pipeline.
type Service struct {
	fetcher Fetcher
	logger  *zap.Logger
	tracer  trace.Tracer
}

var _ Previewer = (*Service)(nil)

// NewService builds a Service around a shared fetcher.
func NewService(fetcher Fetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// ParseTarget validates a caller-supplied URL. It fails with KindInvalidInput
// unless the URL parses and carries both a scheme and a host. The returned URL
// is in its normalized, percent-encoded form.
func ParseTarget(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, newError(KindInvalidInput, "", ErrMissingURL)
	}
	target, err := resolver.Parse(rawURL)
	if err != nil {
		return nil, newError(KindInvalidInput, rawURL, err)
	}
	return target, nil
}

// Handle validates rawURL, fetches it exactly once and extracts its metadata.
// userAgent is forwarded to the fetcher when non-empty. Errors are *Error values
// whose Kind tells the caller which stage failed.
func (s *Service) Handle(ctx context.Context, rawURL, userAgent string) (Metadata, error) {
	ctx, span := s.tracer.Start(ctx, "preview.handle",
		trace.WithAttributes(attribute.String("url.full", rawURL)),
	)
	defer span.End()

	start := time.Now()
	md, err := s.handle(ctx, rawURL, userAgent)
	if err != nil {
		kind := KindOf(err)
		metrics.ObservePreview(string(kind))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.logger.Warn("preview failed",
			zap.String("url", rawURL),
			zap.String("error_kind", string(kind)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Metadata{}, err
	}

	metrics.ObservePreview(metrics.OutcomeOK)
	s.logger.Info("preview extracted",
		zap.String("url", rawURL),
		zap.String("title", md.Title.OrElse("")),
		zap.Bool("has_image", md.Image.IsSome()),
		zap.Duration("duration", time.Since(start)),
	)
	return md, nil
}

func (s *Service) handle(ctx context.Context, rawURL, userAgent string) (Metadata, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return Metadata{}, err
	}

	resp, err := s.fetcher.Fetch(ctx, FetchRequest{URL: target.String(), UserAgent: userAgent})
	if err != nil {
		return Metadata{}, newError(KindFetchFailure, rawURL, err)
	}
	// References resolve against the requested URL even when the fetch was
	// redirected; the final URL is only recorded.
	finalURL := resp.URL
	if finalURL == "" {
		finalURL = target.String()
	}
	s.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.String("final_url", finalURL),
		zap.Bool("redirected", finalURL != target.String()),
		zap.String("content_type", resp.Headers.Get("Content-Type")),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)),
	)

	doc, err := document.ParseBytes(resp.Body)
	if err != nil {
		return Metadata{}, newError(KindParseFailure, rawURL, err)
	}
	return Extract(doc, target), nil
}
