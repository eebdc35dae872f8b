package engine

import (
	"github.com/dreamerjackson/mangacrawler/limiter"
	"github.com/dreamerjackson/mangacrawler/spider"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Session    spider.SessionFunc
	Navigator  spider.Navigator
	Parser     Parser
	Store      Store
	Storage    spider.DataRepository
	Limiter    limiter.RateLimiter
	LinkLimit  int // 每页最多处理的详情链接数，<= 0 不限制
	Iterations int // 最多处理的列表页数，<= 0 不限制
	Logger     *zap.Logger
}

var defaultOptions = options{
	Storage: spider.EmptyDataRepository{},
	Logger:  zap.NewNop(),
}

func WithSession(session spider.SessionFunc) Option {
	return func(opts *options) {
		opts.Session = session
	}
}

func WithNavigator(navigator spider.Navigator) Option {
	return func(opts *options) {
		opts.Navigator = navigator
	}
}

func WithParser(parser Parser) Option {
	return func(opts *options) {
		opts.Parser = parser
	}
}

func WithStore(store Store) Option {
	return func(opts *options) {
		opts.Store = store
	}
}

// WithStorage 新增记录的镜像输出，Run 结束时关闭
func WithStorage(s spider.DataRepository) Option {
	return func(opts *options) {
		opts.Storage = s
	}
}

// WithLimiter 每次导航之后等待
func WithLimiter(l limiter.RateLimiter) Option {
	return func(opts *options) {
		opts.Limiter = l
	}
}

func WithLinkLimit(limit int) Option {
	return func(opts *options) {
		opts.LinkLimit = limit
	}
}

func WithIterations(iterations int) Option {
	return func(opts *options) {
		opts.Iterations = iterations
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}
