package chart

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		name  string
		label string
		want  string
	}{
		{name: "empty", label: "", want: ""},
		{name: "short", label: "api", want: "api"},
		{name: "exactly fifteen", label: "abcdefghijklmno", want: "abcdefghijklmno"},
		{name: "sixteen", label: "abcdefghijklmnop", want: "abcdefghijkl..."},
		{name: "long repository name", label: "kubernetes-operator-sdk", want: "kubernetes-o..."},
		{name: "multi-byte runes", label: "プロジェクト名前がとても長いリポジトリ", want: "プロジェクト名前がとても..."},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.label))
		})
	}
}

func TestTruncate_Properties(t *testing.T) {
	for n := 0; n <= 40; n++ {
		label := strings.Repeat("x", n)
		got := Truncate(label)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxLabelLength)
		if n <= MaxLabelLength {
			assert.Equal(t, label, got)
		} else {
			assert.Equal(t, label[:12]+"...", got)
		}
	}
}

func TestTruncateTo(t *testing.T) {
	testCases := []struct {
		name      string
		label     string
		maxLength int
		want      string
	}{
		{name: "limit above default keeps twelve runes", label: "abcdefghijklmnopqrstuvwxyz", maxLength: 20, want: "abcdefghijkl..."},
		{name: "limit below default clamps prefix", label: "abcdefghijklmnopqrst", maxLength: 10, want: "abcdefg..."},
		{name: "limit five", label: "abcdefgh", maxLength: 5, want: "ab..."},
		{name: "limit equals ellipsis", label: "abcdefgh", maxLength: 3, want: "..."},
		{name: "limit two", label: "abcdefgh", maxLength: 2, want: ".."},
		{name: "limit zero", label: "abcdefgh", maxLength: 0, want: ""},
		{name: "negative limit", label: "abcdefgh", maxLength: -1, want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateTo(tc.label, tc.maxLength))
		})
	}
}

func TestTruncateTo_NeverExceedsLimit(t *testing.T) {
	label := "abcdefghijklmnopqrstuvwxyz"
	for limit := 0; limit <= 30; limit++ {
		got := TruncateTo(label, limit)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), limit, "limit %d", limit)
	}
}
