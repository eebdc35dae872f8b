package collect

import (
	"time"

	"github.com/dreamerjackson/mangacrawler/extensions"
	"go.uber.org/zap"
)

type options struct {
	Timeout     time.Duration // 单次导航超时
	WaitTimeout time.Duration // 等待翻页控件出现的最长时间
	Headless    bool
	UserAgent   string
	Cookie      string
	Proxies     *Proxies
	logger      *zap.Logger
}

var defaultOptions = options{
	logger:      zap.NewNop(),
	Timeout:     30 * time.Second,
	WaitTimeout: 10 * time.Second,
	Headless:    true,
	UserAgent:   extensions.DefaultUA,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.Timeout = timeout
	}
}

func WithWaitTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.WaitTimeout = timeout
	}
}

func WithHeadless(headless bool) Option {
	return func(opts *options) {
		opts.Headless = headless
	}
}

func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.UserAgent = ua
	}
}

func WithCookie(cookie string) Option {
	return func(opts *options) {
		opts.Cookie = cookie
	}
}

func WithProxies(p *Proxies) Option {
	return func(opts *options) {
		opts.Proxies = p
	}
}
