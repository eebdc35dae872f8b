package topmanga

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDocument(t *testing.T, name, pageURL string) *spider.Document {
	t.Helper()

	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	doc, err := spider.NewDocument(pageURL, body)
	require.NoError(t, err)

	return doc
}

func htmlDocument(t *testing.T, body string) *spider.Document {
	t.Helper()

	doc, err := spider.NewDocument("https://myanimelist.net/manga/1/x", []byte(body))
	require.NoError(t, err)

	return doc
}

func TestExtract_Berserk(t *testing.T) {
	doc := loadDocument(t, "berserk.html", "https://myanimelist.net/manga/2/Berserk")

	got := New().Extract(doc)
	want := spider.Record{
		Title:          "Berserk",
		Type:           "Manga",
		Score:          "9.47",
		Rank:           "#1",
		Popularity:     "#1",
		Members:        "730,372",
		Favourites:     "129,004",
		Authors:        []string{"Miura, Kentarou", "Studio Gaga"},
		Synopsis:       `Guts, a former mercenary now known as the "Black Swordsman," is out for revenge. After a tumultuous childhood, he finally finds someone he respects. [Written by MAL Rewrite]`,
		Genres:         []string{"Action", "Adventure", "Drama"},
		Themes:         []string{"Gore", "Military"},
		Demographic:    "Unknown",
		Recommended:    "1,234",
		MixedFeelings:  "56",
		NotRecommended: "7",
		ImageURL:       "https://cdn.myanimelist.net/images/manga/1/157897.jpg",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_MissingFields(t *testing.T) {
	p := New()
	empty := p.Extract(htmlDocument(t, `<html><body><p>nothing here</p></body></html>`))
	assert.Equal(t, spider.NewRecord(), empty)

	assert.Equal(t, spider.NewRecord(), p.Extract(nil))

	// 每个标量字段单独缺失时取各自的默认值
	for field, def := range spider.Defaults {
		assert.Equal(t, def, fieldValue(empty, field), field)
	}
}

func TestExtract_IndependentFields(t *testing.T) {
	doc := htmlDocument(t, `<html><body>
		<div class="score-label">8.10</div>
		<div class="spaceit_pad"><span class="dark_text">Demographic:</span> <a href="/manga/genre/42/Seinen">Seinen</a></div>
		<div class="spaceit_pad"><span class="dark_text">Theme:</span> <a href="/manga/genre/58/Gore">Gore</a></div>
	</body></html>`)

	r := New().Extract(doc)
	assert.Equal(t, spider.UnknownTitle, r.Title)
	assert.Equal(t, "8.10", r.Score)
	assert.Equal(t, "Seinen", r.Demographic)
	assert.Equal(t, []string{"Gore"}, r.Themes)
	assert.Equal(t, []string{}, r.Genres)
	assert.Equal(t, []string{}, r.Authors)
	assert.Equal(t, spider.Unknown, r.Type)
	assert.Equal(t, spider.NotAvailable, r.ImageURL)
}

func TestExtract_Title(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "first text node",
			body: `<span class="h1-title"><span itemprop="name">  Monster <br><span class="title-english">Monster (EN)</span></span></span>`,
			want: "Monster",
		},
		{
			name: "no text node",
			body: `<span class="h1-title"><span itemprop="name"><b>Vagabond</b></span></span>`,
			want: "Vagabond",
		},
		{
			name: "blank title",
			body: `<span class="h1-title"><span itemprop="name">   </span></span>`,
			want: spider.UnknownTitle,
		},
		{
			name: "missing",
			body: `<h1>One Piece</h1>`,
			want: spider.UnknownTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().Extract(htmlDocument(t, tt.body))
			assert.Equal(t, tt.want, r.Title)
		})
	}
}

func TestExtract_Image(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "data-src", body: `<img itemprop="image" data-src="https://a/1.jpg" src="https://a/0.gif">`, want: "https://a/1.jpg"},
		{name: "src fallback", body: `<img itemprop="image" src="https://a/2.jpg">`, want: "https://a/2.jpg"},
		{name: "empty data-src", body: `<img itemprop="image" data-src="" src="https://a/3.jpg">`, want: "https://a/3.jpg"},
		{name: "no attribute", body: `<img itemprop="image">`, want: spider.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().Extract(htmlDocument(t, tt.body))
			assert.Equal(t, tt.want, r.ImageURL)
		})
	}
}

func TestExtract_PanicIsolated(t *testing.T) {
	p := New()
	for i := range p.texts {
		if p.texts[i].field == spider.FieldScore {
			p.texts[i].lookup = func(*spider.Document) (string, bool) { panic("boom") }
		}
	}
	for i := range p.lists {
		if p.lists[i].field == spider.FieldGenres {
			p.lists[i].lookup = func(*spider.Document) []string { panic("boom") }
		}
	}

	var r spider.Record
	require.NotPanics(t, func() {
		r = p.Extract(loadDocument(t, "berserk.html", "https://myanimelist.net/manga/2/Berserk"))
	})
	assert.Equal(t, spider.NotAvailable, r.Score)
	assert.Equal(t, []string{}, r.Genres)
	assert.Equal(t, "Berserk", r.Title)
	assert.Equal(t, "#1", r.Rank)
}

func TestDiscoverLinks(t *testing.T) {
	doc := loadDocument(t, "listing.html", "https://myanimelist.net/topmanga.php?limit=0")
	p := New()

	all := []string{
		"https://myanimelist.net/manga/2/Berserk",
		"https://myanimelist.net/manga/1706/JoJo_no_Kimyou_na_Bouken_Part_7__Steel_Ball_Run",
		"https://myanimelist.net/manga/656/Vagabond",
		"https://myanimelist.net/manga/2/Berserk",
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "no limit", limit: 0, want: all},
		{name: "limit", limit: 2, want: all[:2]},
		{name: "limit above count", limit: 50, want: all},
		{name: "negative", limit: -1, want: all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DiscoverLinks(doc, tt.limit))
		})
	}

	assert.Empty(t, p.DiscoverLinks(htmlDocument(t, `<p>empty</p>`), 50))
	assert.Equal(t, "a.link-blue-box.next", p.NextPageSelector())
}

func fieldValue(r spider.Record, f spider.Field) string {
	switch f {
	case spider.FieldTitle:
		return r.Title
	case spider.FieldType:
		return r.Type
	case spider.FieldScore:
		return r.Score
	case spider.FieldRank:
		return r.Rank
	case spider.FieldPopularity:
		return r.Popularity
	case spider.FieldMembers:
		return r.Members
	case spider.FieldFavourites:
		return r.Favourites
	case spider.FieldSynopsis:
		return r.Synopsis
	case spider.FieldDemographic:
		return r.Demographic
	case spider.FieldRecommended:
		return r.Recommended
	case spider.FieldMixedFeelings:
		return r.MixedFeelings
	case spider.FieldNotRecommended:
		return r.NotRecommended
	case spider.FieldImageURL:
		return r.ImageURL
	}
	return ""
}
