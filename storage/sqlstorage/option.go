package sqlstorage

import (
	"github.com/dreamerjackson/mangacrawler/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	driver     string
	sqlURL     string
	table      string
	BatchCount int // 批量数
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	driver:     sqldb.MySQL,
	table:      "manga",
	BatchCount: 10,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithSQLURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithTable(table string) Option {
	return func(opts *options) {
		opts.table = table
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}
