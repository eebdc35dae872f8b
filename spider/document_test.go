package spider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<a class="x" href=" /manga/2/Berserk ">Berserk</a>
<a class="x" href="">Empty</a>
<a class="x">None</a>
</body></html>`

func TestDocument_Query(t *testing.T) {
	doc, err := NewDocument("https://myanimelist.net/topmanga.php?limit=0", []byte(page))
	require.NoError(t, err)

	assert.Nil(t, doc.QueryOne("div.missing"))
	assert.Empty(t, doc.QueryAll("div.missing"))

	links := doc.QueryAll("a.x")
	require.Len(t, links, 3)
	assert.Equal(t, "Berserk", doc.QueryOne("a.x").Text())

	v, ok := Attr(links[0], "href")
	assert.True(t, ok)
	assert.Equal(t, "/manga/2/Berserk", v)

	_, ok = Attr(links[1], "href")
	assert.False(t, ok)
	_, ok = Attr(links[2], "href")
	assert.False(t, ok)
	_, ok = Attr(nil, "href")
	assert.False(t, ok)
}

func TestDocument_NilSafe(t *testing.T) {
	var doc *Document
	assert.Nil(t, doc.QueryOne("a"))
	assert.Nil(t, doc.QueryAll("a"))
	assert.Equal(t, "/manga/1", doc.Resolve(" /manga/1 "))
}

func TestDocument_Resolve(t *testing.T) {
	doc := &Document{URL: "https://myanimelist.net/topmanga.php?limit=50"}

	tests := []struct {
		ref  string
		want string
	}{
		{"/manga/2/Berserk", "https://myanimelist.net/manga/2/Berserk"},
		{"manga/1", "https://myanimelist.net/manga/1"},
		{"https://cdn.myanimelist.net/images/manga/1/157897.jpg", "https://cdn.myanimelist.net/images/manga/1/157897.jpg"},
		{"?limit=100", "https://myanimelist.net/topmanga.php?limit=100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, doc.Resolve(tt.ref), tt.ref)
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord()
	assert.Equal(t, UnknownTitle, r.Title)
	assert.Equal(t, Unknown, r.Demographic)
	assert.Equal(t, NotAvailable, r.MixedFeelings)
	assert.NotNil(t, r.Authors)

	r.Set(FieldMixedFeelings, "12")
	r.SetList(FieldThemes, nil)
	r.SetList(FieldGenres, []string{"Drama"})
	assert.Equal(t, "12", r.MixedFeelings)
	assert.Equal(t, []string{}, r.Themes)
	assert.Equal(t, []string{"Drama"}, r.Genres)
}
