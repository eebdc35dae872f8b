package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreamerjackson/mangacrawler/limiter"
	"github.com/dreamerjackson/mangacrawler/pager"
	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/dreamerjackson/mangacrawler/storage/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testConfig = `
[log]
level = "debug"
file = "harvest.log"
maxSize = 50
compress = false

[harvest]
baseURL = "https://example.com/topmanga.php?limit="
pagination = "next"
pageSize = 25
iterations = 3

[fetcher]
type = "http"
headless = false
timeout = 2000
proxy = ["http://127.0.0.1:8888"]

[politeness]
minDelay = 100
maxDelay = 200

[[politeness.limits]]
EventCount = 1
EventDur = 2
Bucket = 1

[storage]
type = "sqlite"
sqlURL = "manga.db"
batchCount = 5
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "harvest.log", cfg.Log.File)
	assert.Equal(t, 50, cfg.Log.MaxSize)
	assert.False(t, cfg.Log.Compress)
	assert.Equal(t, 0, cfg.Log.MaxBackups)
	assert.Equal(t, "https://example.com/topmanga.php?limit=", cfg.Harvest.BaseURL)
	assert.Equal(t, pager.NextType, cfg.Harvest.Pagination)
	assert.Equal(t, 25, cfg.Harvest.PageSize)
	assert.Equal(t, 3, cfg.Harvest.Iterations)
	assert.Equal(t, "manga_data_new.json", cfg.Harvest.Snapshot)
	assert.Equal(t, "http", cfg.Fetcher.Type)
	assert.False(t, cfg.Fetcher.Headless)
	assert.Equal(t, 2*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.NextWait)
	assert.Equal(t, []string{"http://127.0.0.1:8888"}, cfg.Fetcher.Proxy)
	assert.Equal(t, 100*time.Millisecond, cfg.Politeness.MinDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Politeness.MaxDelay)
	assert.Equal(t, []limiter.Config{{EventCount: 1, EventDur: 2, Bucket: 1}}, cfg.Politeness.Limits)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, 5, cfg.Storage.BatchCount)
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(path, true)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	flags := HarvestCmd.Flags()
	require.NoError(t, flags.Set("iterations", "2"))
	require.NoError(t, flags.Set("pagination", "next"))
	require.NoError(t, flags.Set("max-delay", "1s"))
	defer func() {
		for _, name := range []string{"iterations", "pagination", "max-delay"} {
			flags.Lookup(name).Changed = false
		}
	}()

	cfg := DefaultConfig()
	applyFlags(HarvestCmd, &cfg)

	assert.Equal(t, 2, cfg.Harvest.Iterations)
	assert.Equal(t, pager.NextType, cfg.Harvest.Pagination)
	assert.Equal(t, time.Second, cfg.Politeness.MaxDelay)
	assert.Equal(t, 5*time.Second, cfg.Politeness.MinDelay)
	assert.True(t, cfg.Fetcher.Headless)
}

func TestNewNavigator(t *testing.T) {
	cfg := DefaultConfig()

	nav, err := NewNavigator(cfg, "a.next")
	require.NoError(t, err)
	assert.IsType(t, &pager.OffsetNavigator{}, nav)

	cfg.Harvest.Pagination = pager.NextType
	nav, err = NewNavigator(cfg, "a.next")
	require.NoError(t, err)
	assert.Equal(t, "a.next", nav.(*pager.NextNavigator).Selector)

	cfg.Harvest.Pagination = "scroll"
	_, err = NewNavigator(cfg, "a.next")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "default", modify: func(c *Config) {}},
		{name: "one page", modify: func(c *Config) { c.Harvest.Iterations = 1 }},
		{name: "zero iterations", modify: func(c *Config) { c.Harvest.Iterations = 0 }, wantErr: true},
		{name: "negative iterations", modify: func(c *Config) { c.Harvest.Iterations = -1 }, wantErr: true},
		{name: "zero page size", modify: func(c *Config) { c.Harvest.PageSize = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_ZeroIterations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[harvest]\niterations = 0\n"), 0o644))

	_, err := LoadConfig(path, true)
	assert.Error(t, err)
}

func TestRun_ZeroIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harvest.Iterations = 0
	cfg.Harvest.Snapshot = filepath.Join(t.TempDir(), "manga.json")

	assert.Error(t, Run(cfg))
	_, err := os.Stat(cfg.Harvest.Snapshot)
	assert.True(t, os.IsNotExist(err))
}

func TestNewStorage(t *testing.T) {
	cfg := DefaultConfig()

	s, err := NewStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, spider.EmptyDataRepository{}, s)

	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLURL = filepath.Join(t.TempDir(), "manga.db")
	_, err = NewStorage(cfg, zap.NewNop())
	assert.NoError(t, err)

	cfg.Storage.Type = "redis"
	_, err = NewStorage(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetcher.Type = "carrier-pigeon"
	_, err := NewSession(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.Fetcher.Type = "http"
	cfg.Fetcher.Proxy = []string{"ftp://127.0.0.1:21"}
	_, err = NewSession(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.Fetcher.Proxy = []string{"127.0.0.1:8888"}
	session, err := NewSession(cfg, zap.NewNop())
	require.NoError(t, err)
	r, err := session(context.Background())
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestRun_HTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topmanga.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><table>
<tr><td class="title"><a class="hoverinfo_trigger" href="/manga/2/Berserk">Berserk</a></td></tr>
<tr><td class="title"><a class="hoverinfo_trigger" href="/manga/1/Monster">Monster</a></td></tr>
<tr><td class="title"><a class="hoverinfo_trigger" href="/manga/404/Gone">Gone</a></td></tr>
</table></body></html>`)
	})
	detail := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><body><h1><span class="h1-title"><span itemprop="name">%s</span></span></h1>
<div class="score-label">9.1</div></body></html>`, title)
		}
	}
	mux.HandleFunc("/manga/2/Berserk", detail("Berserk"))
	mux.HandleFunc("/manga/1/Monster", detail("Monster"))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Harvest.BaseURL = srv.URL + "/topmanga.php?limit="
	cfg.Harvest.Iterations = 1
	cfg.Harvest.Snapshot = filepath.Join(dir, "manga.json")
	cfg.Fetcher.Type = "http"
	cfg.Fetcher.Timeout = 5 * time.Second
	cfg.Politeness.MinDelay = 0
	cfg.Politeness.MaxDelay = 0
	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLURL = filepath.Join(dir, "manga.db")

	require.NoError(t, Run(cfg))

	store := snapshot.New(snapshot.WithPath(cfg.Harvest.Snapshot))
	require.NoError(t, store.Load())
	require.Equal(t, 2, store.Len())
	assert.Equal(t, "Berserk", store.Snapshot()[0].Title)
	assert.Equal(t, "9.1", store.Snapshot()[0].Score)
	assert.Equal(t, "Monster", store.Snapshot()[1].Title)
}
