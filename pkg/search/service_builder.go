package search

import (
	"time"

	serperhttp "serper-client/internal/common/http"
	"serper-client/internal/common/logger"
	"serper-client/internal/common/observability"
	"serper-client/pkg/config"
	serrors "serper-client/pkg/errors"
)

// ServiceBuilder assembles a Service step by step.
type ServiceBuilder struct {
	apiKey *string
	cfg    config.Config
	opts   []ServiceOption
}

func NewServiceBuilder() *ServiceBuilder {
	return &ServiceBuilder{cfg: config.New("")}
}

func (b *ServiceBuilder) APIKey(apiKey string) *ServiceBuilder {
	b.apiKey = &apiKey
	return b
}

func (b *ServiceBuilder) BaseURL(baseURL string) *ServiceBuilder {
	b.cfg = b.cfg.WithBaseURL(baseURL)
	return b
}

func (b *ServiceBuilder) Timeout(timeout time.Duration) *ServiceBuilder {
	b.cfg = b.cfg.WithTimeout(timeout)
	return b
}

func (b *ServiceBuilder) MaxConcurrent(n int) *ServiceBuilder {
	b.cfg = b.cfg.WithMaxConcurrent(n)
	return b
}

func (b *ServiceBuilder) Header(key, value string) *ServiceBuilder {
	b.cfg = b.cfg.WithHeader(key, value)
	return b
}

func (b *ServiceBuilder) UserAgent(userAgent string) *ServiceBuilder {
	b.cfg = b.cfg.WithUserAgent(userAgent)
	return b
}

func (b *ServiceBuilder) EnableLogging() *ServiceBuilder {
	b.cfg = b.cfg.WithLogging(true)
	return b
}

func (b *ServiceBuilder) Logger(l logger.Logger) *ServiceBuilder {
	b.opts = append(b.opts, WithLogger(l))
	return b
}

func (b *ServiceBuilder) Observability(obs *observability.Observability) *ServiceBuilder {
	b.opts = append(b.opts, WithObservability(obs))
	return b
}

func (b *ServiceBuilder) HTTPClient(d serperhttp.Doer) *ServiceBuilder {
	b.opts = append(b.opts, WithHTTPClient(d))
	return b
}

// Build fails with a configuration error when no API key was supplied.
func (b *ServiceBuilder) Build() (*Service, error) {
	if b.apiKey == nil {
		return nil, serrors.NewConfigError("API key is required")
	}
	cfg := b.cfg
	cfg.APIKey = *b.apiKey
	return NewServiceFromConfig(cfg, b.opts...)
}
