package spider

import "context"

// Navigator 列表页的翻页策略
type Navigator interface {
	// First 打开第一页列表
	First(ctx context.Context, r Renderer) (*Document, error)
	// Advance 打开下一页列表，没有下一页时返回 ErrNoMorePages
	Advance(ctx context.Context, r Renderer, cur *Document) (*Document, error)
}
