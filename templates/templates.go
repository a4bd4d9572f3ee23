// Package templates embeds the HTML pages rendered by the controllers.
package templates

import (
	"cafes/forms"
	"embed"
	"errors"
	"html/template"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"amenity":  forms.ToDisplay,
	"choices":  func() []forms.Amenity { return forms.AmenityChoices },
	"selected": func(a, b forms.Amenity) bool { return a == b },
	"dict":     dict,
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// Load parses every page together so they can share the layout blocks.
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
