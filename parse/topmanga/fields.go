package topmanga

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/mangacrawler/spider"
	"golang.org/x/net/html"
)

// lookup 所有标量字段共用的查找原语，找不到时 ok 为 false，由调用方替换为默认值
type lookup func(doc *spider.Document) (v string, ok bool)

// lookupList 列表字段的查找原语，找不到时返回空
type lookupList func(doc *spider.Document) []string

var lineBreakRe = regexp.MustCompile(`\s*[\r\n]+\s*`)

// singleLine 把换行折叠为单个空格
func singleLine(s string) string {
	return strings.TrimSpace(lineBreakRe.ReplaceAllString(s, " "))
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func textOf(selector string) lookup {
	return func(doc *spider.Document) (string, bool) {
		s := doc.QueryOne(selector)
		if s == nil {
			return "", false
		}
		return nonEmpty(s.Text())
	}
}

// firstTextOf 优先取容器的第一个文本节点，丢掉嵌在里面的别名 span
func firstTextOf(selector string) lookup {
	return func(doc *spider.Document) (string, bool) {
		s := doc.QueryOne(selector)
		if s == nil {
			return "", false
		}

		var first string
		s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if len(c.Nodes) == 0 || c.Nodes[0].Type != html.TextNode {
				return true
			}
			if v, ok := nonEmpty(c.Nodes[0].Data); ok {
				first = v
				return false
			}
			return true
		})
		if first != "" {
			return first, true
		}

		return nonEmpty(s.Text())
	}
}

// attrOf 按顺序尝试多个属性，例如懒加载图片的 data-src 再到 src
func attrOf(selector string, names ...string) lookup {
	return func(doc *spider.Document) (string, bool) {
		s := doc.QueryOne(selector)
		for _, name := range names {
			if v, ok := spider.Attr(s, name); ok {
				return v, true
			}
		}
		return "", false
	}
}

func textsOf(selector string) lookupList {
	return func(doc *spider.Document) []string {
		var list []string
		for _, s := range doc.QueryAll(selector) {
			if v, ok := nonEmpty(s.Text()); ok {
				list = append(list, v)
			}
		}
		return list
	}
}

// infoRow 找到标签匹配的信息行，返回行节点与标签文本
func (p *Parser) infoRow(doc *spider.Document, labels []string) (*goquery.Selection, string) {
	for _, row := range doc.QueryAll(p.sel.InfoRow) {
		label := strings.TrimSpace(row.Find(p.sel.InfoLabel).First().Text())
		name := strings.TrimSpace(strings.TrimSuffix(label, ":"))
		if name == "" {
			continue
		}
		for _, want := range labels {
			if strings.EqualFold(name, want) {
				return row, label
			}
		}
	}

	return nil, ""
}

// labelledValue 信息行中标签之后的文本，例如 "Favorites: 12,345" 中的 "12,345"
func (p *Parser) labelledValue(labels []string) lookup {
	return func(doc *spider.Document) (string, bool) {
		row, label := p.infoRow(doc, labels)
		if row == nil {
			return "", false
		}
		full := strings.Join(strings.Fields(row.Text()), " ")
		return nonEmpty(strings.TrimPrefix(full, label))
	}
}

// labelledLink 信息行中第一个链接的文本，没有链接时退回到标签后的文本
func (p *Parser) labelledLink(labels []string) lookup {
	value := p.labelledValue(labels)
	return func(doc *spider.Document) (string, bool) {
		row, _ := p.infoRow(doc, labels)
		if row == nil {
			return "", false
		}
		if v, ok := nonEmpty(row.Find("a").First().Text()); ok {
			return v, true
		}
		return value(doc)
	}
}

func (p *Parser) labelledLinks(labels []string) lookupList {
	return func(doc *spider.Document) []string {
		row, _ := p.infoRow(doc, labels)
		if row == nil {
			return nil
		}
		var list []string
		row.Find("a").Each(func(_ int, a *goquery.Selection) {
			if v, ok := nonEmpty(a.Text()); ok {
				list = append(list, v)
			}
		})
		return list
	}
}
