package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dreamerjackson/mangacrawler/spider"
	"go.uber.org/zap"
)

// ErrCorrupt 快照内容无法解析，存储按空处理
var ErrCorrupt = errors.New("corrupt snapshot")

// Result 插入结果，零值 Failed 表示记录未写入
type Result int

const (
	Failed Result = iota
	Inserted
	AlreadyPresent
)

func (r Result) String() string {
	switch r {
	case Failed:
		return "failed"
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// Store 以标题去重的记录集合，每次新增后整体重写快照文件。
// 只由编排器单线程访问，不加锁。
type Store struct {
	options
	records []spider.Record
	titles  map[string]struct{}
}

func New(opts ...Option) *Store {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Store{
		options: options,
		titles:  make(map[string]struct{}),
	}
}

// Load 读取快照。文件不存在时为空存储；内容损坏时同样为空，并返回 ErrCorrupt。
func (s *Store) Load() error {
	s.records = nil
	s.titles = make(map[string]struct{})

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no snapshot, start empty", zap.String("path", s.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var records []spider.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	for _, r := range records {
		if _, ok := s.titles[r.Title]; ok {
			continue
		}
		s.titles[r.Title] = struct{}{}
		s.records = append(s.records, normalizeLists(r))
	}

	s.logger.Info("snapshot loaded", zap.String("path", s.path), zap.Int("records", len(s.records)))

	return nil
}

// InsertIfAbsent 标题已存在时不写盘；否则追加并同步重写整个快照。
// 写盘失败时撤销本次插入，内存与磁盘保持一致。
func (s *Store) InsertIfAbsent(r spider.Record) (Result, error) {
	if _, ok := s.titles[r.Title]; ok {
		return AlreadyPresent, nil
	}

	s.records = append(s.records, normalizeLists(r))
	s.titles[r.Title] = struct{}{}

	if err := s.flush(); err != nil {
		s.records = s.records[:len(s.records)-1]
		delete(s.titles, r.Title)
		return Failed, err
	}

	return Inserted, nil
}

// Snapshot 当前所有记录的副本
func (s *Store) Snapshot() []spider.Record {
	out := make([]spider.Record, len(s.records))
	copy(out, s.records)

	return out
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) flush() error {
	data, err := Encode(s.records)
	if err != nil {
		return err
	}

	if err := WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}

	s.logger.Debug("data saved", zap.String("path", s.path), zap.Int("records", len(s.records)))

	return nil
}

// Encode 快照格式：UTF-8，4 空格缩进，不转义 HTML 字符
func Encode(records []spider.Record) ([]byte, error) {
	if records == nil {
		records = []spider.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func normalizeLists(r spider.Record) spider.Record {
	r.SetList(spider.FieldAuthors, r.Authors)
	r.SetList(spider.FieldGenres, r.Genres)
	r.SetList(spider.FieldThemes, r.Themes)

	return r
}

// WriteFile 先写同目录临时文件再 rename，失败时旧快照保持完整
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
