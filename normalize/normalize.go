// Package normalize 把采集快照转换为类型化的数据集：
// 数值字段转为数字，列表字段小写，简介压成单行。
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/dreamerjackson/mangacrawler/storage/snapshot"
)

// Record 清洗后的记录，Type 与 Authors 不输出
type Record struct {
	Title          string   `json:"Title"`
	Score          float64  `json:"Score"`
	Rank           int      `json:"Rank"`
	Popularity     int      `json:"Popularity"`
	Members        int      `json:"Members"`
	Favourites     int      `json:"Favourites"`
	Recommended    int      `json:"Recommended"`
	MixedFeelings  int      `json:"Mixed Feelings"`
	NotRecommended int      `json:"Not Recommended"`
	Genres         []string `json:"Genres"`
	Themes         []string `json:"Themes"`
	Synopsis       string   `json:"Synopsis"`
	Demographic    string   `json:"Demographic"`
	ImageURL       string   `json:"Image URL"`
}

var (
	scoreRe    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	newlineRe  = regexp.MustCompile(`[\r\n]+`)
)

func Normalize(r spider.Record) Record {
	demographic := r.Demographic
	if demographic == "" {
		demographic = spider.Unknown
	}

	return Record{
		Title:          strings.TrimSpace(r.Title),
		Score:          Score(r.Score),
		Rank:           Int(r.Rank),
		Popularity:     Int(r.Popularity),
		Members:        Int(r.Members),
		Favourites:     Int(r.Favourites),
		Recommended:    Int(r.Recommended),
		MixedFeelings:  Int(r.MixedFeelings),
		NotRecommended: Int(r.NotRecommended),
		Genres:         lower(r.Genres),
		Themes:         lower(r.Themes),
		Synopsis:       strings.TrimSpace(newlineRe.ReplaceAllString(r.Synopsis, " ")),
		Demographic:    strings.ToLower(strings.TrimSpace(demographic)),
		ImageURL:       strings.TrimSpace(r.ImageURL),
	}
}

func Records(records []spider.Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, Normalize(r))
	}

	return out
}

// Score "9.47" -> 9.47，"N/A" 等非数字 -> 0
func Score(s string) float64 {
	s = strings.TrimSpace(s)
	if !scoreRe.MatchString(s) {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return f
}

// Int 去掉所有非数字字符后转换，"#1" -> 1，"730,372" -> 730372
func Int(s string) int {
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}

	return n
}

func lower(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}

	return out
}

// Encode 输出格式：UTF-8，2 空格缩进
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// File 读取 in 处的快照，把清洗结果写到 out，返回记录数。
// 每一条输入都会输出，标题重复的记录也保留。
// 文件不存在或内容损坏时直接返回错误。
func File(in, out string) (int, error) {
	b, err := os.ReadFile(in)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", in, err)
	}

	var raw []spider.Record
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", snapshot.ErrCorrupt, in, err)
	}

	records := Records(raw)
	data, err := Encode(records)
	if err != nil {
		return 0, err
	}

	if err := snapshot.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", out, err)
	}

	return len(records), nil
}
