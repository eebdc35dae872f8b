package pager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dreamerjackson/mangacrawler/spider"
)

type Type string

const (
	OffsetType Type = "offset"
	NextType   Type = "next"
)

// OffsetNavigator 通过 URL 参数翻页：第 i 页为 BaseURL + i*PageSize，
// 共 Iterations 页。
type OffsetNavigator struct {
	BaseURL    string
	PageSize   int
	Iterations int
	Param      string // BaseURL 带查询串但不以 "=" 结尾时设置的参数名

	page int
}

func NewOffsetNavigator(baseURL string, pageSize, iterations int) *OffsetNavigator {
	return &OffsetNavigator{
		BaseURL:    baseURL,
		PageSize:   pageSize,
		Iterations: iterations,
		Param:      "limit",
	}
}

// PageURL 第 page 页（从 0 开始）的地址
func (o *OffsetNavigator) PageURL(page int) (string, error) {
	offset := strconv.Itoa(page * o.PageSize)

	// https://myanimelist.net/topmanga.php?limit=
	if strings.HasSuffix(o.BaseURL, "=") {
		return o.BaseURL + offset, nil
	}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set(o.Param, offset)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (o *OffsetNavigator) First(ctx context.Context, r spider.Renderer) (*spider.Document, error) {
	o.page = 0
	return o.render(ctx, r)
}

func (o *OffsetNavigator) Advance(ctx context.Context, r spider.Renderer, cur *spider.Document) (*spider.Document, error) {
	if o.Iterations > 0 && o.page+1 >= o.Iterations {
		return nil, spider.ErrNoMorePages
	}

	o.page++
	return o.render(ctx, r)
}

func (o *OffsetNavigator) render(ctx context.Context, r spider.Renderer) (*spider.Document, error) {
	u, err := o.PageURL(o.page)
	if err != nil {
		return nil, err
	}

	return r.Render(ctx, u)
}

// NextNavigator 通过点击页面上的 "下一页" 控件翻页，控件消失即结束
type NextNavigator struct {
	StartURL string
	Selector string
}

func NewNextNavigator(startURL, selector string) *NextNavigator {
	return &NextNavigator{StartURL: startURL, Selector: selector}
}

func (n *NextNavigator) First(ctx context.Context, r spider.Renderer) (*spider.Document, error) {
	return r.Render(ctx, n.StartURL)
}

func (n *NextNavigator) Advance(ctx context.Context, r spider.Renderer, cur *spider.Document) (*spider.Document, error) {
	doc, err := r.Activate(ctx, cur, n.Selector)
	if errors.Is(err, spider.ErrControlNotFound) {
		return nil, spider.ErrNoMorePages
	}

	return doc, err
}
