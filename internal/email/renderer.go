package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectKey = "subject"

type page struct {
	subject *texttemplate.Template
	body    *template.Template
	fields  []string
}

// Renderer holds every registered template parsed against the shared layout.
type Renderer struct {
	pages map[Template]page
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[Template]page, len(registry))
	for name, def := range registry {
		subject, err := texttemplate.New(string(name)).Option("missingkey=error").Parse(def.subject)
		if err != nil {
			return nil, fmt.Errorf("parse subject %s: %w", name, err)
		}

		body, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		body, err = body.ParseFS(templateFS, "templates/"+string(name)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse body %s: %w", name, err)
		}

		pages[name] = page{
			subject: subject,
			body:    body.Option("missingkey=error"),
			fields:  def.fields,
		}
	}

	return &Renderer{pages: pages}, nil
}

// Render produces the subject and HTML body of a template. Every field the
// template declares must be present in fields.
func (r *Renderer) Render(name Template, fields map[string]string) (subject, htmlBody string, err error) {
	p, ok := r.pages[name]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	data := make(map[string]string, len(p.fields)+1)
	for _, f := range p.fields {
		v, ok := fields[f]
		if !ok {
			return "", "", fmt.Errorf("%w: %s requires %q", ErrMissingField, name, f)
		}
		data[f] = v
	}

	var buf bytes.Buffer
	if err := p.subject.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render subject %s: %w", name, err)
	}
	subject = buf.String()
	data[subjectKey] = subject

	buf.Reset()
	if err := p.body.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", "", fmt.Errorf("render body %s: %w", name, err)
	}

	return subject, buf.String(), nil
}
