// Package core holds the wiki domain: entries, the storage port and the Service
// that resolves, searches, creates and edits them.
package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxTitleLength bounds entry titles (in runes).
	MaxTitleLength = 128
	// MaxTitleBytes keeps "<title>.md" within the 255-byte file name limit
	// of common filesystems.
	MaxTitleBytes = 255 - len(".md")
)

// Entry is the central entity of the domain.
// It is a named unit of markdown content. The Title is its identity.
type Entry struct {
	Title   string
	Content string
}

// Page is a resolved entry: the raw markdown plus its rendered HTML.
type Page struct {
	Title   string
	Content string
	HTML    []byte
}

// SearchResult is the outcome of Service.Search.
// Page is set when the query named an existing entry exactly; otherwise
// Matches holds every title containing the query, in listing order.
type SearchResult struct {
	Query   string
	Page    *Page
	Matches []string
}

// Exact reports whether the search resolved directly to an entry.
func (r SearchResult) Exact() bool {
	return r.Page != nil
}

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to an entry observed by a Watchable store.
type Event struct {
	Type      EventType
	Title     string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Title)
}

// ValidateTitle checks that a title can safely identify an entry.
// Titles map 1:1 onto file names, so separators and dot-prefixes are rejected.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidTitle)
	}
	if title != strings.TrimSpace(title) {
		return fmt.Errorf("%w: title has surrounding whitespace", ErrInvalidTitle)
	}
	if !utf8.ValidString(title) {
		return fmt.Errorf("%w: title is not valid UTF-8", ErrInvalidTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidTitle, MaxTitleLength)
	}
	if len(title) > MaxTitleBytes {
		return fmt.Errorf("%w: title longer than %d bytes", ErrInvalidTitle, MaxTitleBytes)
	}
	if strings.HasPrefix(title, ".") {
		return fmt.Errorf("%w: title cannot start with '.'", ErrInvalidTitle)
	}
	for _, r := range title {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return fmt.Errorf("%w: title contains %q", ErrInvalidTitle, r)
		}
	}
	return nil
}
