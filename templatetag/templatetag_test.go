package templatetag

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/twcli/twcli/config"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  template.HTML
	}{
		{
			name:  "production preloads the stylesheet",
			debug: false,
			want:  `<link rel="preload" href="/static/css/tailwind.css" as="style"><link rel="stylesheet" href="/static/css/tailwind.css">`,
		},
		{
			name:  "development links the stylesheet only",
			debug: true,
			want:  `<link rel="stylesheet" href="/static/css/tailwind.css">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.debug, "/static/css/tailwind.css")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Render() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFuncMap(t *testing.T) {
	c := config.Default("/srv/project")
	c.DistCSS = "css/styles.css"

	for _, debug := range []bool{false, true} {
		c.Debug = debug
		tpl := template.Must(template.New("base").Funcs(FuncMap(c)).Parse(`<head>{{ tailwind_css }}</head>`))

		var buf bytes.Buffer
		if err := tpl.Execute(&buf, nil); err != nil {
			t.Fatal(err)
		}
		h := buf.String()

		preload := `<link rel="preload" href="/static/css/styles.css" as="style">`
		if strings.Contains(h, preload) == debug {
			t.Errorf("debug=%v: preload present = %v\n%s", debug, !debug, h)
		}
		if !strings.Contains(h, `<link rel="stylesheet" href="/static/css/styles.css">`) {
			t.Errorf("debug=%v: stylesheet link missing\n%s", debug, h)
		}
	}
}
