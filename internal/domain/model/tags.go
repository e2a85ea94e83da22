package model

import (
	"regexp"
	"sort"
	"strings"
)

// TagSep はタグ文字列の区切り文字。CSVの列にもこの形のまま出る。
const TagSep = ","

// TagSet は重複なしのタグ集合。追加順を保持する。
// 重複排除は保存時ではなく、ここで集合を変更するときに行う。
type TagSet struct {
	items []string
	index map[string]struct{}
}

func NewTagSet(tags ...string) *TagSet {
	s := &TagSet{index: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// ParseTags は "a,b,,a" のような文字列を集合にする（空要素・重複は捨てる）。
func ParseTags(raw string) *TagSet {
	if strings.TrimSpace(raw) == "" {
		return NewTagSet()
	}
	return NewTagSet(strings.Split(raw, TagSep)...)
}

// Add は追加できたら true
func (s *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	if _, ok := s.index[tag]; ok {
		return false
	}
	s.index[tag] = struct{}{}
	s.items = append(s.items, tag)
	return true
}

// Remove は削除できたら true
func (s *TagSet) Remove(tag string) bool {
	tag = strings.TrimSpace(tag)
	if _, ok := s.index[tag]; !ok {
		return false
	}
	delete(s.index, tag)
	for i, t := range s.items {
		if t == tag {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Toggle はあれば外し、なければ付ける。付いた状態になったら true。
func (s *TagSet) Toggle(tag string) bool {
	if s.Has(tag) {
		s.Remove(tag)
		return false
	}
	return s.Add(tag)
}

func (s *TagSet) Has(tag string) bool {
	_, ok := s.index[strings.TrimSpace(tag)]
	return ok
}

func (s *TagSet) Len() int { return len(s.items) }

// Items は追加順のコピー
func (s *TagSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *TagSet) Sorted() []string {
	out := s.Items()
	sort.Strings(out)
	return out
}

func (s *TagSet) String() string {
	return strings.Join(s.items, TagSep)
}

// Search は大文字小文字を無視した部分一致（ソート済み）。
// クエリは正規表現としてエスケープしてから使う。
func (s *TagSet) Search(query string) []string {
	all := s.Sorted()
	if query == "" {
		return all
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return []string{}
	}

	out := make([]string, 0, len(all))
	for _, t := range all {
		if re.MatchString(t) {
			out = append(out, t)
		}
	}
	return out
}
