// Package forms binds and validates the wiki's HTML forms.
//
// Forms are values built per request from url.Values; nothing is shared
// between requests.
package forms

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aretw0/encyclopedia/pkg/core"
)

// Field names as submitted by the templates.
const (
	FieldSearch  = "search"
	FieldTitle   = "title"
	FieldContent = "content"
)

// SearchForm is the query box present on every page.
type SearchForm struct {
	Query string
}

// BindSearch reads the search form from a query string. The query is kept as
// typed: only a query equal to a title, byte for byte, resolves directly.
func BindSearch(values url.Values) SearchForm {
	return SearchForm{Query: values.Get(FieldSearch)}
}

// Validate requires a query with something besides whitespace.
func (f SearchForm) Validate() error {
	return validation.Errors{
		FieldSearch: validation.Validate(strings.TrimSpace(f.Query),
			validation.Required.Error("enter something to search for")),
	}.Filter()
}

// EntryForm carries a title and its markdown content. It backs both the
// create form and the edit form.
type EntryForm struct {
	Title   string
	Content string
}

// CreateForm is submitted to /new.
type CreateForm struct{ EntryForm }

// EditForm is submitted to /edit and /changes.
type EditForm struct{ EntryForm }

// BindCreate reads a create form from a POST body.
func BindCreate(values url.Values) CreateForm {
	return CreateForm{bindEntry(values)}
}

// BindEdit reads an edit form from a POST body.
func BindEdit(values url.Values) EditForm {
	return EditForm{bindEntry(values)}
}

func bindEntry(values url.Values) EntryForm {
	return EntryForm{
		Title:   strings.TrimSpace(values.Get(FieldTitle)),
		Content: normalizeNewlines(values.Get(FieldContent)),
	}
}

// Validate requires a usable title. Content may be empty.
func (f EntryForm) Validate() error {
	return validation.Errors{
		FieldTitle: validation.Validate(f.Title,
			validation.Required.Error("title is required"),
			validation.By(titleRule),
		),
	}.Filter()
}

func titleRule(value any) error {
	title, _ := value.(string)
	if title == "" {
		return nil
	}
	if err := core.ValidateTitle(title); err != nil {
		msg := strings.TrimPrefix(err.Error(), core.ErrInvalidTitle.Error()+": ")
		return validation.NewError("validation_title_invalid", msg)
	}
	return nil
}

// normalizeNewlines converts the CRLF line endings browsers submit for
// textareas to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Messages flattens a validation error into field -> message.
// Errors that are not validation.Errors land under the "" key.
func Messages(err error) map[string]string {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			out[field] = fieldErr.Error()
		}
	}
	return out
}

// MessageList returns the messages in field order, for plain rendering.
func MessageList(err error) []string {
	msgs := Messages(err)
	fields := make([]string, 0, len(msgs))
	for field := range msgs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, msgs[field])
	}
	return out
}
