package listing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/listing.html
var templateFS embed.FS

// Renderer fills the listing HTML template. Rendering itself is pure; only
// construction can fail, when a template override file is unreadable.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the template at path, or the embedded default when path
// is empty.
func NewRenderer(path string) (*Renderer, error) {
	if path == "" {
		tmpl, err := template.ParseFS(templateFS, "templates/listing.html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded template: %w", err)
		}
		return &Renderer{tmpl: tmpl}, nil
	}

	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render substitutes the listing into the template and returns the markup.
func (r *Renderer) Render(l Listing) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, l); err != nil {
		return "", fmt.Errorf("failed to render listing template: %w", err)
	}
	return buf.String(), nil
}
