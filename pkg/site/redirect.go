// Copyright © 2018 One Concern

package site

import (
	"bytes"
	"html/template"

	"github.com/spf13/afero"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/site/status"
)

const defaultRedirect = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Redirecting</title>
    <noscript>
      <meta http-equiv="refresh" content="1; url={{ .Href }}" />
    </noscript>
    <script>
      window.location.replace({{ .Href }} + window.location.search + window.location.hash);
    </script>
  </head>
  <body>
    Redirecting to <a href="{{ .Href }}">{{ .Href }}</a>...
  </body>
</html>
`

// RedirectTemplate renders HTML pages redirecting to another location
type RedirectTemplate struct {
	tpl *template.Template
}

// DefaultRedirectTemplate returns the built-in redirect template
func DefaultRedirectTemplate() *RedirectTemplate {
	return &RedirectTemplate{tpl: template.Must(template.New("redirect").Parse(defaultRedirect))}
}

// ParseRedirectTemplate builds a redirect template. The template is given the target as {{ .Href }}.
func ParseRedirectTemplate(text string) (*RedirectTemplate, error) {
	tpl, err := template.New("redirect").Parse(text)
	if err != nil {
		return nil, errors.Newf("cannot parse redirect template: %v", err).Wrap(status.ErrTemplate)
	}
	return &RedirectTemplate{tpl: tpl}, nil
}

// LoadRedirectTemplate reads a redirect template from a file, or returns the built-in one when path is empty
func LoadRedirectTemplate(fs afero.Fs, path string) (*RedirectTemplate, error) {
	if path == "" {
		return DefaultRedirectTemplate(), nil
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Newf("cannot read redirect template %s: %v", path, err).Wrap(status.ErrTemplate)
	}
	return ParseRedirectTemplate(string(data))
}

// Render a redirect page to href
func (r *RedirectTemplate) Render(href string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, struct{ Href string }{Href: href}); err != nil {
		return nil, errors.Newf("cannot render redirect to %s: %v", href, err).Wrap(status.ErrTemplate)
	}
	return buf.Bytes(), nil
}
