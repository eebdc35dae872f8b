package spider

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document 渲染后的页面：最终 URL + HTML。
// 查询方法对 nil 安全，缺失的节点用 nil / 空切片表示，而不是 error。
type Document struct {
	URL  string
	Body []byte
	doc  *goquery.Document
}

func NewDocument(pageURL string, body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", pageURL, err)
	}

	return &Document{URL: pageURL, Body: body, doc: doc}, nil
}

// QueryOne 返回第一个匹配的节点，不存在时返回 nil
func (d *Document) QueryOne(selector string) *goquery.Selection {
	if d == nil || d.doc == nil {
		return nil
	}

	s := d.doc.Find(selector).First()
	if s.Length() == 0 {
		return nil
	}

	return s
}

// QueryAll 按文档顺序返回所有匹配的节点
func (d *Document) QueryAll(selector string) []*goquery.Selection {
	if d == nil || d.doc == nil {
		return nil
	}

	var nodes []*goquery.Selection
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s)
	})

	return nodes
}

// Attr 读取节点属性，属性不存在或为空白时 ok 为 false
func Attr(s *goquery.Selection, name string) (string, bool) {
	if s == nil {
		return "", false
	}

	v, ok := s.Attr(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

// Resolve 把页面内的相对链接转换为绝对 URL
func (d *Document) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if d == nil || d.URL == "" {
		return ref
	}

	base, err := url.Parse(d.URL)
	if err != nil {
		return ref
	}

	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}

	return u.String()
}
