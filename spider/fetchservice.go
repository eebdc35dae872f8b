package spider

import (
	"context"
	"errors"
)

var (
	// ErrControlNotFound 在限定的等待时间内找不到可点击的控件
	ErrControlNotFound = errors.New("control not found")
	// ErrNoMorePages 分页正常结束，不是错误
	ErrNoMorePages = errors.New("no more pages")
)

type RenderType int

const (
	HTTPRenderType RenderType = iota
	BrowserRenderType
)

// Renderer 独占的渲染会话（一个浏览器标签页），不能并发导航。
type Renderer interface {
	// Render 导航到 url 并返回渲染后的文档
	Render(ctx context.Context, url string) (*Document, error)
	// Activate 在当前文档中定位并激活控件，返回激活后的文档。
	// 控件不存在或等待超时返回 ErrControlNotFound。
	Activate(ctx context.Context, doc *Document, selector string) (*Document, error)
	Close() error
}

// SessionFunc 建立渲染会话，失败时整个运行终止
type SessionFunc func(ctx context.Context) (Renderer, error)
