package snapshot

import "go.uber.org/zap"

type options struct {
	path   string
	logger *zap.Logger
}

var defaultOptions = options{
	path:   "manga_data_new.json",
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithPath(path string) Option {
	return func(opts *options) {
		opts.path = path
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
