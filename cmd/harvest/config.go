package harvest

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dreamerjackson/mangacrawler/limiter"
	"github.com/dreamerjackson/mangacrawler/log"
	"github.com/dreamerjackson/mangacrawler/pager"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

type Config struct {
	Log        log.Config
	Harvest    HarvestConfig
	Fetcher    FetcherConfig
	Politeness PolitenessConfig
	Storage    StorageConfig
}

type HarvestConfig struct {
	BaseURL    string // offset 翻页的基础地址
	StartURL   string // next 翻页的第一页
	Pagination pager.Type
	PageSize   int
	Iterations int
	Snapshot   string
}

type FetcherConfig struct {
	Type     string // browser | http
	Headless bool
	Timeout  time.Duration
	NextWait time.Duration
	Proxy    []string
	Cookie   string
}

type PolitenessConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Limits   []limiter.Config
}

type StorageConfig struct {
	Type       string // empty | mysql | sqlite
	SQLURL     string
	BatchCount int
}

func DefaultConfig() Config {
	return Config{
		Log: log.DefaultConfig(),
		Harvest: HarvestConfig{
			BaseURL:    "https://myanimelist.net/topmanga.php?limit=",
			StartURL:   "https://myanimelist.net/topmanga.php?limit=0",
			Pagination: pager.OffsetType,
			PageSize:   50,
			Iterations: 10,
			Snapshot:   "manga_data_new.json",
		},
		Fetcher: FetcherConfig{
			Type:     "browser",
			Headless: true,
			Timeout:  30 * time.Second,
			NextWait: 10 * time.Second,
		},
		Politeness: PolitenessConfig{
			MinDelay: 5 * time.Second,
			MaxDelay: 15 * time.Second,
		},
		Storage: StorageConfig{
			Type:       "empty",
			BatchCount: 10,
		},
	}
}

// LoadConfig 读取 toml 配置，缺省值取自 DefaultConfig。
// 文件不存在且 required 为 false 时直接返回默认配置。
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return c, nil
		}
		return c, err
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}

	c.Log.Level = cfg.Get("log", "level").String(c.Log.Level)
	c.Log.File = cfg.Get("log", "file").String(c.Log.File)
	c.Log.MaxSize = cfg.Get("log", "maxSize").Int(c.Log.MaxSize)
	c.Log.MaxBackups = cfg.Get("log", "maxBackups").Int(c.Log.MaxBackups)
	c.Log.Compress = cfg.Get("log", "compress").Bool(c.Log.Compress)

	c.Harvest.BaseURL = cfg.Get("harvest", "baseURL").String(c.Harvest.BaseURL)
	c.Harvest.StartURL = cfg.Get("harvest", "startURL").String(c.Harvest.StartURL)
	c.Harvest.Pagination = pager.Type(cfg.Get("harvest", "pagination").String(string(c.Harvest.Pagination)))
	c.Harvest.PageSize = cfg.Get("harvest", "pageSize").Int(c.Harvest.PageSize)
	c.Harvest.Iterations = cfg.Get("harvest", "iterations").Int(c.Harvest.Iterations)
	c.Harvest.Snapshot = cfg.Get("harvest", "snapshot").String(c.Harvest.Snapshot)

	c.Fetcher.Type = cfg.Get("fetcher", "type").String(c.Fetcher.Type)
	c.Fetcher.Headless = cfg.Get("fetcher", "headless").Bool(c.Fetcher.Headless)
	c.Fetcher.Timeout = millis(cfg.Get("fetcher", "timeout"), c.Fetcher.Timeout)
	c.Fetcher.NextWait = millis(cfg.Get("fetcher", "nextWait"), c.Fetcher.NextWait)
	c.Fetcher.Proxy = cfg.Get("fetcher", "proxy").StringSlice(c.Fetcher.Proxy)
	c.Fetcher.Cookie = cfg.Get("fetcher", "cookie").String(c.Fetcher.Cookie)

	c.Politeness.MinDelay = millis(cfg.Get("politeness", "minDelay"), c.Politeness.MinDelay)
	c.Politeness.MaxDelay = millis(cfg.Get("politeness", "maxDelay"), c.Politeness.MaxDelay)
	if err := cfg.Get("politeness", "limits").Scan(&c.Politeness.Limits); err != nil {
		return c, fmt.Errorf("scan politeness limits: %w", err)
	}

	c.Storage.Type = cfg.Get("storage", "type").String(c.Storage.Type)
	c.Storage.SQLURL = cfg.Get("storage", "sqlURL").String(c.Storage.SQLURL)
	c.Storage.BatchCount = cfg.Get("storage", "batchCount").Int(c.Storage.BatchCount)

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}

	return c, nil
}

// Validate 列表页上限必须为正，否则 offset 翻页不会结束
func (c Config) Validate() error {
	if c.Harvest.Iterations < 1 {
		return fmt.Errorf("harvest.iterations must be >= 1, got %d", c.Harvest.Iterations)
	}
	if c.Harvest.PageSize < 1 {
		return fmt.Errorf("harvest.pageSize must be >= 1, got %d", c.Harvest.PageSize)
	}

	return nil
}

// 配置中的时间统一以毫秒表示
func millis(v reader.Value, def time.Duration) time.Duration {
	return time.Duration(v.Int(int(def/time.Millisecond))) * time.Millisecond
}
