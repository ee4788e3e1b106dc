package forms_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/encyclopedia/pkg/forms"
)

func TestSearchForm(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		f := forms.BindSearch(url.Values{"search": {"py"}})
		assert.Equal(t, "py", f.Query)
		assert.NoError(t, f.Validate())
	})

	t.Run("Query Kept As Typed", func(t *testing.T) {
		f := forms.BindSearch(url.Values{"search": {" Python"}})
		assert.Equal(t, " Python", f.Query)
		assert.NoError(t, f.Validate())
	})

	t.Run("Missing Query", func(t *testing.T) {
		f := forms.BindSearch(url.Values{})
		err := f.Validate()
		require.Error(t, err)
		assert.Contains(t, forms.Messages(err), forms.FieldSearch)
	})

	t.Run("Blank Query", func(t *testing.T) {
		assert.Error(t, forms.BindSearch(url.Values{"search": {"   "}}).Validate())
	})
}

func TestCreateForm(t *testing.T) {
	t.Run("Binds and Normalizes", func(t *testing.T) {
		f := forms.BindCreate(url.Values{
			"title":   {" Go "},
			"content": {"# Go\r\n\r\nA language.\r\n"},
		})
		assert.Equal(t, "Go", f.Title)
		assert.Equal(t, "# Go\n\nA language.\n", f.Content)
		assert.NoError(t, f.Validate())
	})

	t.Run("Empty Content Is Allowed", func(t *testing.T) {
		f := forms.BindCreate(url.Values{"title": {"Stub"}})
		assert.NoError(t, f.Validate())
	})

	t.Run("Title Required", func(t *testing.T) {
		err := forms.BindCreate(url.Values{"content": {"x"}}).Validate()
		require.Error(t, err)
		assert.Equal(t, "title is required", forms.Messages(err)[forms.FieldTitle])
	})

	t.Run("Unsafe Title", func(t *testing.T) {
		for _, title := range []string{"../etc", "a/b", ".hidden", strings.Repeat("x", 129), strings.Repeat("日", 100)} {
			err := forms.BindCreate(url.Values{"title": {title}}).Validate()
			require.Error(t, err, title)
			assert.NotEmpty(t, forms.Messages(err)[forms.FieldTitle], title)
		}
	})
}

func TestEditForm(t *testing.T) {
	f := forms.BindEdit(url.Values{"title": {"Python"}, "content": {"new"}})
	assert.Equal(t, "Python", f.Title)
	assert.Equal(t, "new", f.Content)
	assert.NoError(t, f.Validate())

	assert.Error(t, forms.BindEdit(url.Values{}).Validate())
}

func TestMessages(t *testing.T) {
	assert.Nil(t, forms.Messages(nil))
	assert.Equal(t, map[string]string{"": "boom"}, forms.Messages(errors.New("boom")))

	err := forms.BindCreate(url.Values{}).Validate()
	assert.Equal(t, []string{"title is required"}, forms.MessageList(err))
}
