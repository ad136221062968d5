package service

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sitepages/internal/db"
)

const summaryLimit = 160

var (
	textOnly = bluemonday.StrictPolicy()
	blockTag = regexp.MustCompile(`(?i)<(/(p|div|h[1-6]|li|blockquote|section|article|tr|td|th)|br\s*/?)\s*>`)
)

// SummarizeHTML turns an HTML fragment into a single line of plain text,
// truncated to limit runes. Stored content is never modified.
func SummarizeHTML(fragment string, limit int) string {
	// 块级标签后补空格，避免相邻段落的文字粘连
	spaced := blockTag.ReplaceAllString(fragment, "$0 ")
	plain := html.UnescapeString(textOnly.Sanitize(spaced))
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" || limit <= 0 {
		return plain
	}

	if utf8.RuneCountInString(plain) <= limit {
		return plain
	}

	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// MetaDescription returns the page's own description, or a summary of its
// content when none was set.
func MetaDescription(page *db.Page) string {
	if page == nil {
		return ""
	}
	if desc := strings.TrimSpace(page.MetaDescription); desc != "" {
		return desc
	}
	return SummarizeHTML(page.Content, summaryLimit)
}
