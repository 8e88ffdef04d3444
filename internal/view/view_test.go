package view

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefinesEveryPage(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	pages := []string{
		"index", "error",
		"author_list", "author_detail", "author_form", "author_delete",
		"genre_list", "genre_detail", "genre_form", "genre_delete",
		"book_list", "book_detail", "book_form", "book_delete",
		"bookinstance_list", "bookinstance_detail", "bookinstance_form", "bookinstance_delete",
	}
	for _, p := range pages {
		assert.NotNil(t, tmpl.Lookup(p), "missing template %q", p)
	}
}

func TestAuthorForm_EscapesValues(t *testing.T) {
	tmpl := Must()

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "author_form", map[string]any{
		"Title": "Create Author",
		"Form":  url.Values{"first_name": {`<script>x</script>`}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "<script>x</script>")
	assert.True(t, strings.Contains(out, "&lt;script&gt;"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "text-success", StatusClass(model.StatusAvailable))
	assert.Equal(t, "text-danger", StatusClass(model.StatusMaintenance))
	assert.Equal(t, "text-warning", StatusClass(model.StatusLoaned))
	assert.Equal(t, "text-warning", StatusClass(model.StatusReserved))
}
