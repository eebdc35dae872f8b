package topmanga

import "github.com/dreamerjackson/mangacrawler/spider"

// DiscoverLinks 按文档顺序返回列表页中的详情链接，最多 limit 个（limit <= 0 不截断）。
// 同一页内的重复链接不在这里过滤，去重由存储按标题完成。
func (p *Parser) DiscoverLinks(listing *spider.Document, limit int) []string {
	var links []string
	for _, a := range listing.QueryAll(p.sel.DetailLink) {
		href, ok := spider.Attr(a, "href")
		if !ok {
			continue
		}

		links = append(links, listing.Resolve(href))
		if limit > 0 && len(links) >= limit {
			break
		}
	}

	return links
}

// NextPageSelector 列表页 "下一页" 控件的选择器
func (p *Parser) NextPageSelector() string {
	return p.sel.NextPage
}
