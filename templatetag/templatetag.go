// Package templatetag emits the <link> tags that load the compiled stylesheet.
//
// Register the functions with an html/template and call tailwind_css in the
// document head:
//
//	tpl := template.New("base").Funcs(templatetag.FuncMap(cfg))
//	...
//	<head>{{ tailwind_css }}</head>
package templatetag

import (
	"bytes"
	"html/template"

	"github.com/twcli/twcli/config"
)

// In production the stylesheet is preloaded. In debug mode the watch process
// rewrites it continuously, so only the stylesheet link is emitted.
const linkTpl = `{{if not .Debug}}<link rel="preload" href="{{.Href}}" as="style">{{end}}<link rel="stylesheet" href="{{.Href}}">`

var links = template.Must(template.New("tailwind_css").Parse(linkTpl))

// Render returns the link tags for the stylesheet at href.
func Render(debug bool, href string) (template.HTML, error) {
	var buf bytes.Buffer
	err := links.Execute(&buf, struct {
		Debug bool
		Href  string
	}{Debug: debug, Href: href})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// TailwindCSS renders the tags for the dist stylesheet of c.
func TailwindCSS(c config.Config) (template.HTML, error) {
	return Render(c.Debug, c.StylesheetURL())
}

// FuncMap exposes TailwindCSS as tailwind_css.
func FuncMap(c config.Config) template.FuncMap {
	return template.FuncMap{
		"tailwind_css": func() (template.HTML, error) {
			return TailwindCSS(c)
		},
	}
}
