package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/dreamerjackson/mangacrawler/storage/snapshot"
	"go.uber.org/zap"
)

type Extractor interface {
	Extract(doc *spider.Document) spider.Record
}

type LinkDiscoverer interface {
	DiscoverLinks(listing *spider.Document, limit int) []string
}

type Parser interface {
	Extractor
	LinkDiscoverer
}

// Store 以标题去重的记录存储
type Store interface {
	Load() error
	InsertIfAbsent(r spider.Record) (snapshot.Result, error)
	Len() int
	Path() string
}

type State int

const (
	StateStart State = iota
	StateLoadStore
	StateFetchListing
	StateDiscoverLinks
	StateExtractOne
	StateAdvancePage
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateLoadStore:
		return "LOAD_STORE"
	case StateFetchListing:
		return "FETCH_LISTING"
	case StateDiscoverLinks:
		return "DISCOVER_LINKS"
	case StateExtractOne:
		return "EXTRACT_ONE"
	case StateAdvancePage:
		return "ADVANCE_PAGE"
	case StateDone:
		return "DONE"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

type Stats struct {
	Pages      int // 已渲染的列表页
	Links      int // 发现的详情链接
	Inserted   int
	Duplicates int
	Failed     int
}

// Harvester 单会话、顺序执行的采集流程。
// 一个 Harvester 只能 Run 一次。
type Harvester struct {
	options

	renderer spider.Renderer
	listing  *spider.Document
	links    []string
	cursor   int
	page     int
	stats    Stats
}

func New(opts ...Option) (*Harvester, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	switch {
	case options.Session == nil:
		return nil, errors.New("engine: session is required")
	case options.Navigator == nil:
		return nil, errors.New("engine: navigator is required")
	case options.Parser == nil:
		return nil, errors.New("engine: parser is required")
	case options.Store == nil:
		return nil, errors.New("engine: store is required")
	}

	if options.Storage == nil {
		options.Storage = spider.EmptyDataRepository{}
	}

	h := &Harvester{}
	h.options = options

	return h, nil
}

// Run 执行完整的采集流程。只有会话建立失败会返回 error，
// 其他失败都记录日志后跳过。ctx 取消时在当前步骤结束后退出。
func (h *Harvester) Run(ctx context.Context) (Stats, error) {
	defer h.release()

	state := StateStart
	for state != StateDone {
		if state != StateStart && ctx.Err() != nil {
			h.Logger.Warn("harvest interrupted", zap.Stringer("state", state), zap.Error(ctx.Err()))
			break
		}

		next, err := h.step(ctx, state)
		if err != nil {
			return h.stats, err
		}

		h.Logger.Debug("transition", zap.Stringer("from", state), zap.Stringer("to", next))
		state = next
	}

	h.finish()

	return h.stats, nil
}

func (h *Harvester) step(ctx context.Context, state State) (State, error) {
	switch state {
	case StateStart:
		r, err := h.Session(ctx)
		if err != nil {
			h.Logger.Error("establish session failed", zap.Error(err))
			return StateDone, fmt.Errorf("establish session: %w", err)
		}
		h.renderer = r

		return StateLoadStore, nil

	case StateLoadStore:
		if err := h.Store.Load(); err != nil {
			if errors.Is(err, snapshot.ErrCorrupt) {
				h.Logger.Warn("snapshot is corrupt, starting with an empty store", zap.Error(err))
			} else {
				h.Logger.Warn("load snapshot failed, starting with an empty store", zap.Error(err))
			}
		}
		h.Logger.Info("store loaded", zap.String("path", h.Store.Path()), zap.Int("records", h.Store.Len()))

		return StateFetchListing, nil

	case StateFetchListing:
		doc, err := h.Navigator.First(ctx, h.renderer)
		h.wait(ctx)
		if err != nil {
			h.Logger.Error("fetch listing failed", zap.Error(err))
			return StateDone, nil
		}
		h.listing = doc
		h.stats.Pages++

		return StateDiscoverLinks, nil

	case StateDiscoverLinks:
		h.links = h.Parser.DiscoverLinks(h.listing, h.LinkLimit)
		h.cursor = 0
		h.stats.Links += len(h.links)
		h.Logger.Info("page start",
			zap.Int("page", h.page+1),
			zap.String("url", h.listing.URL),
			zap.Int("links", len(h.links)))

		if len(h.links) == 0 {
			return StateAdvancePage, nil
		}

		return StateExtractOne, nil

	case StateExtractOne:
		link := h.links[h.cursor]
		h.cursor++

		if err := h.extractOne(ctx, link); err != nil {
			h.stats.Failed++
			h.Logger.Error("harvest record failed", zap.String("url", link), zap.Error(err))
		}

		if h.cursor < len(h.links) {
			return StateExtractOne, nil
		}
		h.Logger.Info("page finished", zap.Int("page", h.page+1), zap.Int("records", h.Store.Len()))

		return StateAdvancePage, nil

	case StateAdvancePage:
		if h.Iterations > 0 && h.page+1 >= h.Iterations {
			h.Logger.Info("iteration cap reached", zap.Int("iterations", h.Iterations))
			return StateDone, nil
		}

		doc, err := h.Navigator.Advance(ctx, h.renderer, h.listing)
		if errors.Is(err, spider.ErrNoMorePages) {
			h.Logger.Info("no more pages", zap.Int("pages", h.stats.Pages))
			return StateDone, nil
		}
		h.wait(ctx)
		if err != nil {
			h.Logger.Error("advance page failed", zap.Int("page", h.page+2), zap.Error(err))
			return StateDone, nil
		}
		h.listing = doc
		h.page++
		h.stats.Pages++

		return StateDiscoverLinks, nil
	}

	return StateDone, fmt.Errorf("engine: unknown state %v", state)
}

func (h *Harvester) extractOne(ctx context.Context, link string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			h.Logger.Error("extract panic",
				zap.String("url", link),
				zap.Any("err", p),
				zap.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	h.Logger.Info("processing", zap.String("url", link))

	doc, err := h.renderer.Render(ctx, link)
	h.wait(ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	record := h.Parser.Extract(doc)

	res, err := h.Store.InsertIfAbsent(record)
	if err != nil {
		return fmt.Errorf("save %q: %w", record.Title, err)
	}

	if res == snapshot.AlreadyPresent {
		h.stats.Duplicates++
		h.Logger.Info("already exists", zap.String("title", record.Title))
		return nil
	}

	h.stats.Inserted++
	h.Logger.Info("added", zap.Int("n", h.Store.Len()), zap.String("title", record.Title))

	if err := h.Storage.Save(record); err != nil {
		h.Logger.Warn("mirror save failed", zap.String("title", record.Title), zap.Error(err))
	}

	return nil
}

// 每次导航后的礼貌等待，ctx 取消时立即返回
func (h *Harvester) wait(ctx context.Context) {
	if h.Limiter == nil {
		return
	}

	if err := h.Limiter.Wait(ctx); err != nil {
		h.Logger.Debug("politeness wait interrupted", zap.Error(err))
	}
}

func (h *Harvester) finish() {
	if err := h.Storage.Flush(); err != nil {
		h.Logger.Warn("mirror flush failed", zap.Error(err))
	}

	h.Logger.Info("data saved",
		zap.String("path", h.Store.Path()),
		zap.Int("records", h.Store.Len()),
		zap.Int("pages", h.stats.Pages),
		zap.Int("links", h.stats.Links),
		zap.Int("inserted", h.stats.Inserted),
		zap.Int("duplicates", h.stats.Duplicates),
		zap.Int("failed", h.stats.Failed))
}

func (h *Harvester) release() {
	if err := h.Storage.Close(); err != nil {
		h.Logger.Warn("close storage failed", zap.Error(err))
	}

	if h.renderer == nil {
		return
	}

	if err := h.renderer.Close(); err != nil {
		h.Logger.Warn("close session failed", zap.Error(err))
	}
	h.renderer = nil
}
