package model

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags_DropsEmptyAndDuplicates(t *testing.T) {
	s := ParseTags(",vip, urgent,,vip,")

	assert.Equal(t, []string{"vip", "urgent"}, s.Items())
	assert.Equal(t, "vip,urgent", s.String())
}

func TestParseTags_Empty(t *testing.T) {
	assert.Equal(t, 0, ParseTags("").Len())
	assert.Equal(t, 0, ParseTags("  ").Len())
	assert.Equal(t, "", ParseTags(",,").String())
}

func TestTagSet_AddRemove(t *testing.T) {
	s := NewTagSet("a")

	assert.True(t, s.Add("b"))
	assert.False(t, s.Add("b"))
	assert.False(t, s.Add("  "))
	assert.Equal(t, "a,b", s.String())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, "b", s.String())
}

func TestTagSet_Toggle(t *testing.T) {
	s := NewTagSet("vip")

	assert.False(t, s.Toggle("vip"))
	assert.False(t, s.Has("vip"))

	assert.True(t, s.Toggle("vip"))
	assert.True(t, s.Has("vip"))
}

func TestTagSet_RoundTrip(t *testing.T) {
	sets := [][]string{
		{},
		{"one"},
		{"vip", "urgent", "wholesale"},
		{"x y", "ä", "with-dash", "a.b"},
	}

	for _, tags := range sets {
		joined := strings.Join(tags, TagSep)
		got := ParseTags(joined).Items()

		want := append([]string{}, tags...)
		sort.Strings(want)
		sort.Strings(got)
		assert.Equal(t, want, got, "tags=%v", tags)
	}
}

func TestTagSet_Search(t *testing.T) {
	s := NewTagSet("VIP", "urgent", "a.b", "ab", "gift(wrap)")

	assert.Equal(t, []string{"VIP", "a.b", "ab", "gift(wrap)", "urgent"}, s.Search(""))
	assert.Equal(t, []string{"VIP"}, s.Search("vi"))
	// "." は任意文字ではなくリテラル
	assert.Equal(t, []string{"a.b"}, s.Search("a.b"))
	assert.Equal(t, []string{"gift(wrap)"}, s.Search("(wrap"))
	assert.Equal(t, []string{}, s.Search("zzz"))
}

func TestOrder_TagSet(t *testing.T) {
	o := Order{Tags: "a,b,a"}
	assert.Equal(t, []string{"a", "b"}, o.TagSet().Items())
}
