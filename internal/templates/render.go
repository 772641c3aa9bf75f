// Package templates renders the viewer page and the HTML fragments sent over SSE.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/rotisserie/eris"
)

//go:embed html/*.html
var embedded embed.FS

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// dict creates a map from key-value pairs, useful for passing multiple values to nested templates
	"dict": func(values ...any) map[string]any {
		if len(values)%2 != 0 {
			return nil
		}
		m := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				continue
			}
			m[key] = values[i+1]
		}
		return m
	},
	// rgba formats a color array for CSS
	"rgba": func(c [4]uint8) template.CSS {
		return template.CSS(fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c[0], c[1], c[2], float64(c[3])/255))
	},
}

// Renderer manages HTML page and fragment templates. Templates are parsed
// once and safe for concurrent use.
type Renderer struct {
	templates *template.Template
}

// New parses the templates embedded in the binary.
func New() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "html")
	if err != nil {
		return nil, eris.Wrap(err, "templates: embedded fs")
	}
	return NewFS(sub)
}

// NewFS parses every *.html template in fsys.
func NewFS(fsys fs.FS) (*Renderer, error) {
	tmpl, err := parse(fsys)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

func parse(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, eris.Wrap(err, "templates: parse")
	}
	return tmpl, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToBuffer renders a named template to a buffer.
func (r *Renderer) RenderToBuffer(buf *bytes.Buffer, name string, data any) error {
	return r.Execute(buf, name, data)
}

// Execute renders a named template to w.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	return eris.Wrapf(r.templates.ExecuteTemplate(w, name, data), "templates: execute %s", name)
}

// Option is a value and label for a select control.
type Option struct {
	Value string
	Label string
}

// ViewerData is the model of the viewer page.
type ViewerData struct {
	Title       string
	DeckURL     string
	CountiesURL string
	Categories  []Option
	// Signals is the initial Datastar signal object as JSON.
	Signals string
}
