package templates

import (
	"bytes"
	"cafes/forms"
	"cafes/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)
	for _, name := range []string{"index.html", "cafes.html", "add.html", "register.html", "login.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestAddPageSelectsStoredAmenities(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	form := forms.CafeFormFrom(model.Cafe{Name: "Blue Bottle", HasSockets: 1})
	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "add.html", map[string]any{
		"Title":  "Edit Cafe",
		"Action": "/edit/1",
		"Form":   form,
		"Errors": forms.Errors{"seats": "This field is required."},
	}))

	page := buf.String()
	assert.Contains(t, page, `value="Blue Bottle"`)
	assert.Contains(t, page, `<option value="present" selected>`)
	assert.Contains(t, page, "This field is required.")
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
