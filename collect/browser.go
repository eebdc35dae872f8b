package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/dreamerjackson/mangacrawler/spider"
	"go.uber.org/zap"
)

// BrowserRender 基于 chromedp 的无头浏览器，整个运行只使用一个标签页
type BrowserRender struct {
	options
	allocCtx      context.Context
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowserRender 启动浏览器，启动失败时释放已分配的资源并返回错误
func NewBrowserRender(ctx context.Context, opts ...Option) (*BrowserRender, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	b := &BrowserRender{options: options}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(b.UserAgent),
	)
	if server := b.Proxies.Server(); server != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(server))
	}

	b.allocCtx, b.cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	b.browserCtx, b.cancelBrowser = chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(b.logger.Sugar().Debugf),
		chromedp.WithErrorf(b.logger.Sugar().Warnf),
	)

	// 不带 action 的 Run 只负责拉起浏览器
	if err := chromedp.Run(b.browserCtx); err != nil {
		b.cancelBrowser()
		b.cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	b.logger.Info("browser started", zap.Bool("headless", b.Headless))

	return b, nil
}

func (b *BrowserRender) Render(ctx context.Context, url string) (*spider.Document, error) {
	tctx, cancel := b.bound(ctx, b.Timeout)
	defer cancel()

	var location, html string
	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	b.logger.Debug("render", zap.String("url", location), zap.Int("length", len(html)))

	return spider.NewDocument(location, []byte(html))
}

// Activate 在 doc 所在页面上等待控件可见后点击，并等待地址栏变化。
// 标签页已离开 doc（例如刚渲染过详情页）时先导航回 doc.URL。
func (b *BrowserRender) Activate(ctx context.Context, doc *spider.Document, selector string) (*spider.Document, error) {
	if err := b.restore(ctx, doc); err != nil {
		return nil, err
	}

	wctx, cancel := b.bound(ctx, b.WaitTimeout)
	defer cancel()

	var before string
	if err := chromedp.Run(wctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Location(&before),
	); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, spider.ErrControlNotFound
		}
		return nil, fmt.Errorf("wait %s: %w", selector, err)
	}

	nctx, ncancel := b.bound(ctx, b.Timeout)
	defer ncancel()

	var location, html string
	err := chromedp.Run(nctx,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
		waitLocationChange(before),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("activate %s: %w", selector, err)
	}

	return spider.NewDocument(location, []byte(html))
}

func (b *BrowserRender) restore(ctx context.Context, doc *spider.Document) error {
	if doc == nil || doc.URL == "" {
		return nil
	}

	tctx, cancel := b.bound(ctx, b.Timeout)
	defer cancel()

	var location string
	if err := chromedp.Run(tctx, chromedp.Location(&location)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("location: %w", err)
	}
	if location == doc.URL {
		return nil
	}

	b.logger.Debug("back to page", zap.String("from", location), zap.String("url", doc.URL))

	err := chromedp.Run(tctx,
		chromedp.Navigate(doc.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("navigate %s: %w", doc.URL, err)
	}

	return nil
}

func (b *BrowserRender) Close() error {
	err := chromedp.Cancel(b.browserCtx)
	b.cancelBrowser()
	b.cancelAlloc()
	b.logger.Info("browser closed")

	return err
}

// bound 派生自浏览器 context 的超时 context，调用方取消时一并取消
func (b *BrowserRender) bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(b.browserCtx, timeout)
	stop := context.AfterFunc(ctx, cancel)

	return tctx, func() {
		stop()
		cancel()
	}
}

func waitLocationChange(before string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for {
			var now string
			if err := chromedp.Location(&now).Do(ctx); err != nil {
				return err
			}
			if now != before {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	})
}
