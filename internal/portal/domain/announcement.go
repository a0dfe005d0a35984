package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// AnnouncementTitleMax bounds the title length in characters.
const AnnouncementTitleMax = 100

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalises s; empty yields normal.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityNormal, true
	}
	switch p := Priority(s); p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p, true
	default:
		return "", false
	}
}

// Announcement is a bulletin post published by an administrator.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	Priority  Priority
	CreatedBy *string // nil once the author account is gone
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Announcement) Validate() error {
	v := NewValidationError()
	if a.ID == "" {
		v.Add("id", "required")
	}
	title := strings.TrimSpace(a.Title)
	switch {
	case title == "":
		v.Add("title", "required")
	case utf8.RuneCountInString(title) > AnnouncementTitleMax:
		v.Add("title", "too long (max 100)")
	}
	if strings.TrimSpace(a.Content) == "" {
		v.Add("content", "required")
	}
	if _, ok := ParsePriority(string(a.Priority)); !ok || a.Priority == "" {
		v.Add("priority", "must be one of low, normal, high")
	}
	return v.OrNil()
}
