package topmanga

import "go.uber.org/zap"

type options struct {
	sel    Selectors
	logger *zap.Logger
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithSelectors(sel Selectors) Option {
	return func(opts *options) {
		opts.sel = sel
	}
}
