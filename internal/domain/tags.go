package domain

import (
	"slices"
	"strings"
)

// fullWidthComma is accepted as a tag delimiter alongside ','.
const fullWidthComma = "，"

// NormalizeTags canonicalises free-text tag input into a comma-joined list
// with no blank entries: "レポート, ,試験，" becomes "レポート,試験".
func NormalizeTags(s string) string {
	return strings.Join(SplitTags(s), ",")
}

// SplitTags splits a tag string on ',' or '，', trimming entries and
// dropping empty ones.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(s, fullWidthComma, ","), ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// CollectTags returns the distinct tags found on items, sorted.
func CollectTags(items []*TaskListItem) []string {
	seen := make(map[string]struct{})
	for _, it := range items {
		for _, tag := range SplitTags(it.Tags) {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
