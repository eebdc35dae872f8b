package topmanga

import "github.com/dreamerjackson/mangacrawler/spider"

// Selectors 页面上各字段的位置，默认值对应 myanimelist 的排行榜与详情页
type Selectors struct {
	Title          string
	Score          string
	Rank           string
	Popularity     string
	Members        string
	Authors        string
	Synopsis       string
	Recommended    string
	MixedFeelings  string
	NotRecommended string
	Image          string

	// 侧边栏信息行：<div class="spaceit_pad"><span class="dark_text">Genres:</span> <a>..</a></div>
	InfoRow   string
	InfoLabel string
	Labels    map[spider.Field][]string

	DetailLink string // 列表页中指向详情页的链接
	NextPage   string // 列表页中的 "Next 50"
}

func DefaultSelectors() Selectors {
	return Selectors{
		Title:          `span.h1-title span[itemprop="name"]`,
		Score:          `div.score-label`,
		Rank:           `span.ranked strong`,
		Popularity:     `span.popularity strong`,
		Members:        `span.members strong`,
		Authors:        `span.author a`,
		Synopsis:       `span[itemprop="description"]`,
		Recommended:    `div.recommended strong`,
		MixedFeelings:  `div.mixed-feelings strong`,
		NotRecommended: `div.not-recommended strong`,
		Image:          `img[itemprop="image"]`,
		InfoRow:        `div.spaceit_pad`,
		InfoLabel:      `span.dark_text`,
		Labels: map[spider.Field][]string{
			spider.FieldType:        {"Type"},
			spider.FieldGenres:      {"Genres", "Genre"},
			spider.FieldThemes:      {"Themes", "Theme"},
			spider.FieldDemographic: {"Demographic", "Demographics"},
			spider.FieldFavourites:  {"Favorites", "Favourites"},
		},
		DetailLink: `td.title a.hoverinfo_trigger`,
		NextPage:   `a.link-blue-box.next`,
	}
}
