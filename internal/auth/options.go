package auth

import (
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// Option configures a Verifier, Checker or Provider.
type Option func(*options)

type options struct {
	logger  logging.Logger
	metrics *metrics.Metrics
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics counts authentication and authorization outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	return o
}
