// Package model defines core data structures and types for the post composer.
package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type DraftID string

// Draft is a saved post candidate. Drafts are owned by the draft repository;
// everything handed out of it is a copy.
type Draft struct {
	ID DraftID

	Title   string
	Content string

	CreatedAt time.Time
	UpdatedAt time.Time

	HasImage bool
	ImageURL string
}

// Candidate is the composer's not-yet-saved post.
type Candidate struct {
	Title   string
	Content string

	HasImage bool
	ImageURL string
}

const (
	DefaultPreviewLength = 100
	previewEllipsis      = "..."
	untitledDateLayout   = "2006-01-02"
)

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// UntitledTitle is the title given to drafts saved without one.
func UntitledTitle(createdAt time.Time) string {
	return "Untitled - " + createdAt.Format(untitledDateLayout)
}

// NewDraft builds a draft from a candidate. CreatedAt and UpdatedAt are both set to now.
func NewDraft(id DraftID, c Candidate, now time.Time) Draft {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = UntitledTitle(now)
	}

	d := Draft{
		ID:        id,
		Title:     title,
		Content:   c.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.HasImage && c.ImageURL != "" {
		d.HasImage = true
		d.ImageURL = c.ImageURL
	}
	return d
}

// Preview is a single-line excerpt of the content of at most n runes plus an ellipsis.
// It is always derived from Content and never stored.
func (d *Draft) Preview(n int) string {
	if n <= 0 {
		n = DefaultPreviewLength
	}

	flat := strings.Join(strings.Fields(d.Content), " ")
	if utf8.RuneCountInString(flat) <= n {
		return flat
	}

	runes := []rune(flat)
	return strings.TrimRight(string(runes[:n]), " ") + previewEllipsis
}

// Image returns the attached image URL, if any.
func (d *Draft) Image() (string, bool) {
	if !d.HasImage || d.ImageURL == "" {
		return "", false
	}
	return d.ImageURL, true
}

// Hashtags lists the distinct hashtags in the content, in order of first appearance.
func (d *Draft) Hashtags() []string {
	return Hashtags(d.Content)
}

// WasUpdated reports whether the draft changed after creation.
func (d *Draft) WasUpdated() bool {
	return d.UpdatedAt.After(d.CreatedAt)
}

// Matches reports whether title or content contains term, ignoring case.
// A blank term matches every draft.
func (d *Draft) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Title), term) ||
		strings.Contains(strings.ToLower(d.Content), term)
}

func Hashtags(content string) []string {
	found := hashtagPattern.FindAllString(content, -1)
	if len(found) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(found))
	tags := make([]string, 0, len(found))
	for _, tag := range found {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
