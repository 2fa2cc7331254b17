package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Link is a saved URL. Key is the database row key; ID is the public,
// sqid-encoded form of Key and is never stored.
type Link struct {
	Key       uint64     `json:"key" msgpack:"key"`
	ID        string     `json:"id,omitempty" msgpack:"id,omitempty"`
	URL       string     `json:"url" msgpack:"url"`
	Title     string     `json:"title,omitempty" msgpack:"title,omitempty"`
	Note      string     `json:"note,omitempty" msgpack:"note,omitempty"`
	Tags      string     `json:"tags,omitempty" msgpack:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at" msgpack:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty" msgpack:"read_at,omitempty"`
}

// Validate checks if the link has a valid URL.
func (l *Link) Validate() error {
	if l.URL == "" {
		return ErrInvalidURL
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// IsRead returns true if the link has been marked as read.
func (l *Link) IsRead() bool {
	return l.ReadAt != nil
}

// TagList returns the trimmed, non-empty tags.
func (l *Link) TagList() []string {
	if l.Tags == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(l.Tags, ","), func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})
}

// MergeTags adds the tags of other that l lacks, comparing case-insensitively.
func (l *Link) MergeTags(other *Link) {
	merged := lo.UniqBy(append(l.TagList(), other.TagList()...), strings.ToLower)
	l.Tags = strings.Join(merged, ",")
}
