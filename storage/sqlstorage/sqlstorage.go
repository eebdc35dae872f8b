package sqlstorage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/dreamerjackson/mangacrawler/sqldb"
	"go.uber.org/zap"
)

// SQLStorage 把新增的记录分批写入 SQL 表，实现 spider.DataRepository
type SQLStorage struct {
	dataDocker []spider.Record // 分批输出结果缓存
	db         sqldb.DBer
	created    bool
	now        func() time.Time
	options
}

var columns = []sqldb.Field{
	{Title: "title", Type: "VARCHAR(255)"},
	{Title: "type", Type: "VARCHAR(64)"},
	{Title: "score", Type: "VARCHAR(32)"},
	{Title: "rank", Type: "VARCHAR(32)"},
	{Title: "popularity", Type: "VARCHAR(32)"},
	{Title: "members", Type: "VARCHAR(32)"},
	{Title: "favourites", Type: "VARCHAR(32)"},
	{Title: "authors", Type: "MEDIUMTEXT"},
	{Title: "synopsis", Type: "MEDIUMTEXT"},
	{Title: "genres", Type: "MEDIUMTEXT"},
	{Title: "themes", Type: "MEDIUMTEXT"},
	{Title: "demographic", Type: "VARCHAR(64)"},
	{Title: "recommended", Type: "VARCHAR(32)"},
	{Title: "mixed_feelings", Type: "VARCHAR(32)"},
	{Title: "not_recommended", Type: "VARCHAR(32)"},
	{Title: "image_url", Type: "VARCHAR(1024)"},
	{Title: "time", Type: "VARCHAR(255)"},
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &SQLStorage{}
	s.options = options
	s.now = time.Now

	var err error
	s.db, err = sqldb.New(
		sqldb.WithDriver(s.driver),
		sqldb.WithConnURL(s.sqlURL),
		sqldb.WithLogger(s.logger),
	)

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLStorage) Save(records ...spider.Record) error {
	if !s.created {
		err := s.db.CreateTable(sqldb.TableData{
			TableName:   s.table,
			ColumnNames: columns,
			AutoKey:     true,
		})
		if err != nil {
			return err
		}

		s.created = true
	}

	for _, r := range records {
		s.dataDocker = append(s.dataDocker, r)

		if len(s.dataDocker) >= s.BatchCount {
			if err := s.Flush(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *SQLStorage) Flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	defer func() {
		s.dataDocker = nil
	}()

	now := s.now().Format("2006-01-02 15:04:05")
	args := make([]interface{}, 0, len(s.dataDocker)*len(columns))

	for _, r := range s.dataDocker {
		args = append(args,
			r.Title, r.Type, r.Score, r.Rank, r.Popularity, r.Members, r.Favourites,
			list(r.Authors), r.Synopsis, list(r.Genres), list(r.Themes), r.Demographic,
			r.Recommended, r.MixedFeelings, r.NotRecommended, r.ImageURL, now,
		)
	}

	err := s.db.Insert(sqldb.TableData{
		TableName:   s.table,
		ColumnNames: columns,
		Args:        args,
		DataCount:   len(s.dataDocker),
	})
	if err != nil {
		s.logger.Error("insert data failed", zap.Int("count", len(s.dataDocker)), zap.Error(err))
	}

	return err
}

// Close 写出剩余的缓存记录并关闭数据库连接
func (s *SQLStorage) Close() error {
	flushErr := s.Flush()
	if err := s.db.Close(); err != nil {
		return errors.Join(flushErr, fmt.Errorf("close db: %w", err))
	}

	return flushErr
}

// 列表字段以 JSON 数组存储
func list(v []string) string {
	if v == nil {
		v = []string{}
	}
	j, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}

	return string(j)
}
