package topmanga

import (
	"fmt"
	"strings"

	"github.com/dreamerjackson/mangacrawler/spider"
	"go.uber.org/zap"
)

type textField struct {
	field     spider.Field
	lookup    lookup
	normalize func(string) string
}

type listField struct {
	field  spider.Field
	lookup lookupList
}

// Parser 详情页的字段抽取与列表页的链接发现。
// 字段规则集中在一张表里，默认值统一来自 spider.Defaults。
type Parser struct {
	options
	texts []textField
	lists []listField
}

func New(opts ...Option) *Parser {
	options := defaultOptions
	options.sel = DefaultSelectors()
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{options: options}
	sel := p.sel

	p.texts = []textField{
		{field: spider.FieldTitle, lookup: firstTextOf(sel.Title)},
		{field: spider.FieldType, lookup: p.labelledLink(sel.Labels[spider.FieldType])},
		{field: spider.FieldScore, lookup: textOf(sel.Score)},
		{field: spider.FieldRank, lookup: textOf(sel.Rank)},
		{field: spider.FieldPopularity, lookup: textOf(sel.Popularity)},
		{field: spider.FieldMembers, lookup: textOf(sel.Members)},
		{field: spider.FieldFavourites, lookup: p.labelledValue(sel.Labels[spider.FieldFavourites])},
		{field: spider.FieldSynopsis, lookup: textOf(sel.Synopsis), normalize: singleLine},
		{field: spider.FieldDemographic, lookup: p.labelledLink(sel.Labels[spider.FieldDemographic])},
		{field: spider.FieldRecommended, lookup: textOf(sel.Recommended)},
		{field: spider.FieldMixedFeelings, lookup: textOf(sel.MixedFeelings)},
		{field: spider.FieldNotRecommended, lookup: textOf(sel.NotRecommended)},
		{field: spider.FieldImageURL, lookup: attrOf(sel.Image, "data-src", "src")},
	}

	p.lists = []listField{
		{field: spider.FieldAuthors, lookup: textsOf(sel.Authors)},
		{field: spider.FieldGenres, lookup: p.labelledLinks(sel.Labels[spider.FieldGenres])},
		{field: spider.FieldThemes, lookup: p.labelledLinks(sel.Labels[spider.FieldThemes])},
	}

	return p
}

// Extract 从详情页抽取一条记录，永远不会失败：
// 任何字段查找出错都只影响这个字段本身，它会取默认值。
func (p *Parser) Extract(doc *spider.Document) spider.Record {
	r := spider.NewRecord()

	for _, f := range p.texts {
		if v, ok := p.resolve(doc, f); ok {
			r.Set(f.field, v)
		}
	}

	for _, f := range p.lists {
		r.SetList(f.field, p.resolveList(doc, f))
	}

	return r
}

func (p *Parser) resolve(doc *spider.Document, f textField) (v string, ok bool) {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Debug("field lookup panic",
				zap.String("field", string(f.field)),
				zap.String("err", fmt.Sprint(err)),
			)
			v, ok = "", false
		}
	}()

	v, ok = f.lookup(doc)
	if !ok {
		return "", false
	}

	if f.normalize != nil {
		v = f.normalize(v)
	}
	v = strings.TrimSpace(v)

	return v, v != ""
}

func (p *Parser) resolveList(doc *spider.Document, f listField) (list []string) {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Debug("field lookup panic",
				zap.String("field", string(f.field)),
				zap.String("err", fmt.Sprint(err)),
			)
			list = []string{}
		}
	}()

	list = f.lookup(doc)
	if list == nil {
		list = []string{}
	}

	return list
}
