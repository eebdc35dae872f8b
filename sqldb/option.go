package sqldb

import (
	"go.uber.org/zap"
)

type options struct {
	logger *zap.Logger
	driver string
	sqlURL string
}

var defaultOptions = options{
	logger: zap.NewNop(),
	driver: MySQL,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithConnURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

// WithDriver mysql 或 sqlite
func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}
