package application

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

// Alias tables for the required fields. Property names in the source
// collection vary by locale and casing; each canonical field accepts its
// ASCII name (matched case-insensitively) and known localized labels
// (matched exactly). Earlier aliases win when a page carries more than one.
var (
	titleAliases     = []string{"title", "제목", "이름"}
	dateAliases      = []string{"date", "날짜"}
	slugAliases      = []string{"slug", "슬러그"}
	statusAliases    = []string{"status", "상태"}
	typeAliases      = []string{"type", "종류"}
	tagsAliases      = []string{"tags"}
	categoryAliases  = []string{"category"}
	summaryAliases   = []string{"summary"}
	thumbnailAliases = []string{"thumbnail"}
	authorAliases    = []string{"author"}
	fullWidthAliases = []string{"fullWidth"}
)

// assemblePost maps decoded properties onto the canonical post shape.
// It returns nil instead of an error when the page is not a valid post:
// incomplete records are expected in the source collection and are dropped
// silently.
func assemblePost(pageID string, props map[string]Value, createdTime time.Time) *domain.Post {
	if pageID == "" {
		return nil
	}

	title, _ := findAlias(props, titleAliases)
	if title.Text == "" {
		return nil
	}

	slug, _ := findAlias(props, slugAliases)
	if slug.Text == "" {
		return nil
	}

	statusVal, _ := findAlias(props, statusAliases)
	statuses := filterStatuses(statusVal.Tags)
	if len(statuses) == 0 {
		return nil
	}

	typeVal, _ := findAlias(props, typeAliases)
	types := filterTypes(typeVal.Tags)
	if len(types) == 0 {
		return nil
	}

	post := &domain.Post{
		ID:          pageID,
		Title:       title.Text,
		Slug:        slug.Text,
		CreatedTime: createdTime,
		Type:        types,
		Status:      statuses,
	}

	if date, ok := findAlias(props, dateAliases); ok && date.Date != nil && date.Date.StartDate != "" {
		post.Date = date.Date
	} else {
		post.Date = &domain.DateRange{StartDate: createdTime.UTC().Format("2006-01-02")}
	}

	if v, ok := findAlias(props, tagsAliases); ok && len(v.Tags) > 0 {
		post.Tags = v.Tags
	}
	if v, ok := findAlias(props, categoryAliases); ok && len(v.Tags) > 0 {
		post.Categories = v.Tags
	}
	if v, ok := findAlias(props, summaryAliases); ok && v.Text != "" {
		post.Summary = v.Text
	}
	if v, ok := findAlias(props, thumbnailAliases); ok && v.FileURL != "" {
		post.Thumbnail = v.FileURL
	}
	if v, ok := findAlias(props, authorAliases); ok && len(v.People) > 0 {
		post.Authors = v.People
	}
	if v, ok := findAlias(props, fullWidthAliases); ok {
		post.FullWidth = boolish(v.Text)
	}

	return post
}

// findAlias returns the value of the first property matching one of the
// aliases, in alias-table order. ASCII aliases match case-insensitively so
// "Title" and "title" are synonyms; localized aliases must match exactly.
func findAlias(props map[string]Value, aliases []string) (Value, bool) {
	for _, alias := range aliases {
		if isASCII(alias) {
			for key, v := range props {
				if strings.EqualFold(key, alias) {
					return v, true
				}
			}
			continue
		}
		if v, ok := props[alias]; ok {
			return v, true
		}
	}
	return Value{}, false
}

func filterStatuses(raw []string) []domain.PostStatus {
	var out []domain.PostStatus
	for _, s := range raw {
		if status, ok := domain.ParseStatus(strings.TrimSpace(s)); ok {
			out = append(out, status)
		}
	}
	return out
}

func filterTypes(raw []string) []domain.PostType {
	var out []domain.PostType
	for _, s := range raw {
		if t, ok := domain.ParseType(strings.TrimSpace(s)); ok {
			out = append(out, t)
		}
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func boolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return true
	}
	return false
}
