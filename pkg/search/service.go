package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	serperhttp "serper-client/internal/common/http"
	"serper-client/internal/common/logger"
	"serper-client/internal/common/metrics"
	"serper-client/internal/common/observability"
	"serper-client/pkg/config"
	serrors "serper-client/pkg/errors"
)

const searchPath = "/search"

// Service sends queries to the search endpoint.
type Service struct {
	config     config.Config
	transport  *serperhttp.Transport
	logger     logger.Logger
	errHandler *serrors.ErrorHandler
	obs        *observability.Observability
}

// ServiceInfo describes where and how a Service sends requests.
type ServiceInfo struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type serviceOptions struct {
	logger logger.Logger
	obs    *observability.Observability
	doer   serperhttp.Doer
}

type ServiceOption func(*serviceOptions)

// WithLogger overrides the logger derived from the configuration.
func WithLogger(l logger.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = l
	}
}

func WithObservability(obs *observability.Observability) ServiceOption {
	return func(o *serviceOptions) {
		o.obs = obs
	}
}

// WithHTTPClient sends requests through d instead of a default *http.Client.
// d is shared by concurrent searches and must be safe for concurrent use.
func WithHTTPClient(d serperhttp.Doer) ServiceOption {
	return func(o *serviceOptions) {
		o.doer = d
	}
}

// NewService returns a Service with the default configuration. A blank key
// is rejected.
func NewService(apiKey string, opts ...ServiceOption) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, serrors.NewInvalidAPIKeyError()
	}
	return NewServiceFromConfig(config.New(apiKey), opts...)
}

// NewServiceFromConfig validates cfg and builds a Service that owns it.
func NewServiceFromConfig(cfg config.Config, opts ...ServiceOption) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, serrors.NewInvalidAPIKeyError()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &serviceOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.ForClient(cfg.EnableLogging, cfg.Logging.Level, cfg.Logging.Format)
	}
	if o.obs == nil {
		o.obs = observability.Disabled()
	}

	var transportOpts []serperhttp.TransportOption
	if o.doer != nil {
		transportOpts = append(transportOpts, serperhttp.WithDoer(o.doer))
	}
	transport := serperhttp.NewTransport(serperhttp.TransportConfig{
		Timeout:        cfg.Timeout,
		DefaultHeaders: cfg.DefaultHeaders,
		UserAgent:      cfg.UserAgent,
	}, transportOpts...)

	return &Service{
		config:     cfg,
		transport:  transport,
		logger:     o.logger,
		errHandler: serrors.NewErrorHandler(o.logger),
		obs:        o.obs,
	}, nil
}

// Search validates query, sends it and checks the decoded response.
func (s *Service) Search(ctx context.Context, query SearchQuery) (*SearchResponse, error) {
	return s.execute(ctx, s.transport, query)
}

// SearchSimple searches for text with no optional parameters.
func (s *Service) SearchSimple(ctx context.Context, text string) (*SearchResponse, error) {
	query, err := NewSearchQuery(text)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query)
}

// SearchMultiple runs the queries one after another. The first failure
// aborts the batch and no partial results are returned.
func (s *Service) SearchMultiple(ctx context.Context, queries []SearchQuery) ([]*SearchResponse, error) {
	results := make([]*SearchResponse, 0, len(queries))
	for _, query := range queries {
		resp, err := s.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		results = append(results, resp)
	}
	return results, nil
}

// SearchConcurrent runs every query in its own goroutine with at most
// maxConcurrent requests in flight. Result i belongs to query i. A failure
// does not stop the other searches; once all have finished the first error
// is returned. maxConcurrent <= 0 uses the configured ceiling.
func (s *Service) SearchConcurrent(ctx context.Context, queries []SearchQuery, maxConcurrent int) ([]*SearchResponse, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = s.config.MaxConcurrentRequests
	}

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	results := make([]*SearchResponse, len(queries))

	var g errgroup.Group
	for i, query := range queries {
		transport := s.transport.Clone()
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = serrors.NewExecutionError(fmt.Sprintf("search task panicked: %v", r))
				}
			}()

			if err := sem.Acquire(ctx, 1); err != nil {
				return serrors.NewExecutionError(err.Error())
			}
			metrics.ConcurrentPermitsInUse.Inc()
			defer func() {
				metrics.ConcurrentPermitsInUse.Dec()
				sem.Release(1)
			}()

			resp, err := s.execute(ctx, transport, query)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// QueryBuilder returns an empty builder.
func (s *Service) QueryBuilder() *QueryBuilder {
	return NewQueryBuilder()
}

// SearchWith builds a query with fn and searches for it.
func (s *Service) SearchWith(ctx context.Context, fn func(*QueryBuilder) *QueryBuilder) (*SearchResponse, error) {
	query, err := fn(s.QueryBuilder()).Build()
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query)
}

func (s *Service) Info() ServiceInfo {
	return ServiceInfo{
		BaseURL:   s.config.BaseURL,
		Timeout:   s.config.Timeout,
		UserAgent: s.config.UserAgent,
	}
}

func (s *Service) endpoint() string {
	return strings.TrimRight(s.config.BaseURL, "/") + searchPath
}

func (s *Service) execute(ctx context.Context, transport *serperhttp.Transport, query SearchQuery) (resp *SearchResponse, err error) {
	requestID := uuid.NewString()
	start := time.Now()

	ctx, span := s.obs.StartSpan(ctx, "serper.search",
		attribute.String("serper.request_id", requestID),
		attribute.String("serper.query", query.Q),
	)
	defer func() {
		if r := recover(); r != nil {
			observability.EndSpan(span, fmt.Errorf("search panicked: %v", r))
			panic(r)
		}
		observability.EndSpan(span, err)
	}()

	resp, err = s.send(ctx, transport, query)
	duration := time.Since(start)

	fields := map[string]interface{}{
		"requestId":  requestID,
		"query":      query.Q,
		"durationMs": duration.Milliseconds(),
	}

	if err != nil {
		s.obs.RecordSearch(ctx, "error")
		s.obs.RecordSearchDuration(ctx, duration, "error")
		return nil, s.errHandler.Handle("search", err, fields)
	}

	s.obs.RecordSearch(ctx, "success")
	s.obs.RecordSearchDuration(ctx, duration, "success")
	s.obs.RecordResults(ctx, resp.OrganicCount())

	fields["organicCount"] = resp.OrganicCount()
	fields["hasResults"] = resp.HasResults()
	s.logger.Info("search completed", fields)

	return resp, nil
}

func (s *Service) send(ctx context.Context, transport *serperhttp.Transport, query SearchQuery) (*SearchResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	httpResp, err := transport.PostJSON(ctx, s.endpoint(), s.config.APIKey, query)
	if err != nil {
		return nil, err
	}

	body, err := serperhttp.ReadBody(httpResp)
	if err != nil {
		return nil, err
	}

	resp, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}

	if err := ValidateResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
