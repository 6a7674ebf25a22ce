package hotelsearch

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	index    string

	timeout          time.Duration
	readinessTimeout time.Duration
	promotedWeight   float64
	lenient          bool
	maxPageSize      int

	logger *zap.Logger
}

// WithElasticsearch sets the cluster node addresses, e.g. "http://localhost:9200".
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = append([]string(nil), addrs...)
	})
}

// WithBasicAuth sets cluster credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithIndex overrides the hotel index name (default "hotel").
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithTimeout bounds every engine call (default 3s).
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithReadinessTimeout bounds how long New waits for the cluster (default 10s).
// A negative value skips the readiness check.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithPromotedWeight sets the score multiplier for promoted hotels (default 10).
func WithPromotedWeight(w float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.promotedWeight = w
	})
}

// WithLenientHits drops undecodable hits instead of failing the page.
// Pages with dropped hits report Partial.
func WithLenientHits() Option {
	return optionFunc(func(c *clientConfig) {
		c.lenient = true
	})
}

// WithMaxPageSize overrides the largest accepted page size (default 100).
func WithMaxPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = n
	})
}

// WithLogger sets the logger for engine failures. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
