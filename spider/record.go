package spider

// 字段名即快照文件中的 JSON key
type Field string

const (
	FieldTitle          Field = "Title"
	FieldType           Field = "Type"
	FieldScore          Field = "Score"
	FieldRank           Field = "Rank"
	FieldPopularity     Field = "Popularity"
	FieldMembers        Field = "Members"
	FieldFavourites     Field = "Favourites"
	FieldAuthors        Field = "Authors"
	FieldSynopsis       Field = "Synopsis"
	FieldGenres         Field = "Genres"
	FieldThemes         Field = "Themes"
	FieldDemographic    Field = "Demographic"
	FieldRecommended    Field = "Recommended"
	FieldMixedFeelings  Field = "Mixed Feelings"
	FieldNotRecommended Field = "Not Recommended"
	FieldImageURL       Field = "Image URL"
)

const (
	UnknownTitle = "Unknown Title"
	Unknown      = "Unknown"
	NotAvailable = "N/A"
)

// Defaults 每个标量字段在源位置缺失时的默认值。
// 列表字段缺失时为空切片，不在此表中。
var Defaults = map[Field]string{
	FieldTitle:          UnknownTitle,
	FieldType:           Unknown,
	FieldScore:          NotAvailable,
	FieldRank:           NotAvailable,
	FieldPopularity:     NotAvailable,
	FieldMembers:        NotAvailable,
	FieldFavourites:     NotAvailable,
	FieldSynopsis:       NotAvailable,
	FieldDemographic:    Unknown,
	FieldRecommended:    NotAvailable,
	FieldMixedFeelings:  NotAvailable,
	FieldNotRecommended: NotAvailable,
	FieldImageURL:       NotAvailable,
}

// Record 一条采集结果，Title 为主键。
// 数值类字段保持页面上的原始形式，类型转换由 normalize 完成。
type Record struct {
	Title          string   `json:"Title"`
	Type           string   `json:"Type"`
	Score          string   `json:"Score"`
	Rank           string   `json:"Rank"`
	Popularity     string   `json:"Popularity"`
	Members        string   `json:"Members"`
	Favourites     string   `json:"Favourites"`
	Authors        []string `json:"Authors"`
	Synopsis       string   `json:"Synopsis"`
	Genres         []string `json:"Genres"`
	Themes         []string `json:"Themes"`
	Demographic    string   `json:"Demographic"`
	Recommended    string   `json:"Recommended"`
	MixedFeelings  string   `json:"Mixed Feelings"`
	NotRecommended string   `json:"Not Recommended"`
	ImageURL       string   `json:"Image URL"`
}

// NewRecord 返回所有字段均为默认值的记录
func NewRecord() Record {
	return Record{
		Title:          Defaults[FieldTitle],
		Type:           Defaults[FieldType],
		Score:          Defaults[FieldScore],
		Rank:           Defaults[FieldRank],
		Popularity:     Defaults[FieldPopularity],
		Members:        Defaults[FieldMembers],
		Favourites:     Defaults[FieldFavourites],
		Authors:        []string{},
		Synopsis:       Defaults[FieldSynopsis],
		Genres:         []string{},
		Themes:         []string{},
		Demographic:    Defaults[FieldDemographic],
		Recommended:    Defaults[FieldRecommended],
		MixedFeelings:  Defaults[FieldMixedFeelings],
		NotRecommended: Defaults[FieldNotRecommended],
		ImageURL:       Defaults[FieldImageURL],
	}
}

// Set 按字段名写入标量字段，未知字段与列表字段忽略
func (r *Record) Set(f Field, v string) {
	switch f {
	case FieldTitle:
		r.Title = v
	case FieldType:
		r.Type = v
	case FieldScore:
		r.Score = v
	case FieldRank:
		r.Rank = v
	case FieldPopularity:
		r.Popularity = v
	case FieldMembers:
		r.Members = v
	case FieldFavourites:
		r.Favourites = v
	case FieldSynopsis:
		r.Synopsis = v
	case FieldDemographic:
		r.Demographic = v
	case FieldRecommended:
		r.Recommended = v
	case FieldMixedFeelings:
		r.MixedFeelings = v
	case FieldNotRecommended:
		r.NotRecommended = v
	case FieldImageURL:
		r.ImageURL = v
	}
}

// SetList 写入列表字段，nil 会被替换为空切片
func (r *Record) SetList(f Field, v []string) {
	if v == nil {
		v = []string{}
	}
	switch f {
	case FieldAuthors:
		r.Authors = v
	case FieldGenres:
		r.Genres = v
	case FieldThemes:
		r.Themes = v
	}
}
