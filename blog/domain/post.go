package domain

import (
	"time"
)

// PostType classifies how a post is presented.
type PostType string

// PostStatus controls where a post is visible.
type PostStatus string

const (
	TypePost  PostType = "Post"
	TypePaper PostType = "Paper"
	TypePage  PostType = "Page"

	StatusPrivate        PostStatus = "Private"
	StatusPublic         PostStatus = "Public"
	StatusPublicOnDetail PostStatus = "PublicOnDetail"
)

// DateRange is a calendar date property value. Only StartDate is guaranteed
// once a post has been assembled; the remaining fields carry through whatever
// the source provided.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	TimeZone  string `json:"time_zone,omitempty"`
}

// Author is a resolved user reference. Avatar is always set once the user has
// been resolved; nil means the user has no avatar, not that resolution failed.
type Author struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// Post is the canonical record produced by ingestion.
// A Post only exists if it carried an ID, title, slug and at least one
// recognized type and status; candidates missing any of those are dropped
// during assembly rather than surfaced as errors.
type Post struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	CreatedTime time.Time    `json:"createdTime"`
	Date        *DateRange   `json:"date,omitempty"`
	Type        []PostType   `json:"type"`
	Status      []PostStatus `json:"status"`
	Tags        []string     `json:"tags,omitempty"`
	Categories  []string     `json:"category,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	FullWidth   bool         `json:"fullWidth,omitempty"`
	Authors     []Author     `json:"author,omitempty"`
}

// EffectiveDate is the instant used for ordering: the publish start date when
// one is set, the creation time otherwise.
func (p *Post) EffectiveDate() time.Time {
	if p.Date != nil && p.Date.StartDate != "" {
		if t, err := time.Parse("2006-01-02", p.Date.StartDate); err == nil {
			return t
		}
	}
	return p.CreatedTime
}

// ParseType maps a raw classification value onto the fixed vocabulary.
func ParseType(s string) (PostType, bool) {
	switch PostType(s) {
	case TypePost, TypePaper, TypePage:
		return PostType(s), true
	}
	return "", false
}

// ParseStatus maps a raw visibility value onto the fixed vocabulary.
func ParseStatus(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case StatusPrivate, StatusPublic, StatusPublicOnDetail:
		return PostStatus(s), true
	}
	return "", false
}
