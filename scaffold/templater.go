// Package scaffold renders the files written by `twcli init` and on first run.
package scaffold

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/go-yaml/yaml"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/models"
)

const tailwindConfigTpl = `/** @type {import('tailwindcss').Config} */
const path = require("path");
const plugin = require("tailwindcss/plugin");
const { spawnSync } = require("child_process");

// Asks twcli for the template files of the project.
const getTemplateFiles = () => {
  const command = {{ printf "%q" .Command }};
  const args = [{{range $i, $a := .Args}}{{if $i}}, {{end}}{{ printf "%q" $a }}{{end}}];
  const options = { cwd: path.join(__dirname, {{ printf "%q" .BaseDir }}) };

  const result = spawnSync(command, args, options);

  if (result.error) {
    throw result.error;
  }

  if (result.status !== 0) {
    console.log(result.stdout.toString(), result.stderr.toString());
    throw new Error("twcli list_templates exited with code " + result.status);
  }

  return result.stdout
    .toString()
    .split("\n")
    .map((file) => file.trim())
    .filter((file) => file);
};

module.exports = {
  content: [].concat(getTemplateFiles()),
  theme: {
    extend: {},
  },
  plugins: [
    require("@tailwindcss/typography"),
    require("@tailwindcss/forms"),
    require("@tailwindcss/aspect-ratio"),
    require("@tailwindcss/container-queries"),
    plugin(function ({ addVariant }) {
      addVariant("htmx-settling", ["&.htmx-settling", ".htmx-settling &"]);
      addVariant("htmx-request", ["&.htmx-request", ".htmx-request &"]);
      addVariant("htmx-swapping", ["&.htmx-swapping", ".htmx-swapping &"]);
      addVariant("htmx-added", ["&.htmx-added", ".htmx-added &"]);
    }),
  ],
};
`

// ListTemplatesCommand is the executable the Tailwind config runs to find
// the template files.
const ListTemplatesCommand = "twcli"

// SourceCSS is the initial input stylesheet.
const SourceCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;
`

var tailwindConfig = template.Must(template.New("tailwind.config.js").Parse(tailwindConfigTpl))

type configData struct {
	Command string
	Args    []string
	// BaseDir relative to the config file
	BaseDir string
}

// TailwindConfig writes a tailwind.config.js that lists its content by
// running `twcli list_templates` in the base directory of c.
func TailwindConfig(c config.Config, w io.Writer) error {
	configDir := filepath.Dir(c.FullConfigFilePath())
	baseDir, err := filepath.Rel(configDir, c.BaseDir)
	if err != nil {
		baseDir = c.BaseDir
	}
	return tailwindConfig.Execute(w, configData{
		Command: ListTemplatesCommand,
		Args:    ListTemplatesArgs(c),
		BaseDir: filepath.ToSlash(baseDir),
	})
}

// TailwindConfigString is TailwindConfig into a string.
func TailwindConfigString(c config.Config) (string, error) {
	var buf bytes.Buffer
	if err := TailwindConfig(c, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ListTemplatesArgs are the twcli arguments that list the templates of c
// when run from its base directory.
func ListTemplatesArgs(c config.Config) []string {
	args := []string{}
	if c.SettingsFile != "" {
		settings := c.SettingsFile
		if rel, err := filepath.Rel(c.BaseDir, settings); err == nil {
			settings = rel
		}
		args = append(args, "--settings", filepath.ToSlash(settings))
	}
	return append(args, "list_templates")
}

// Settings renders a settings file that pins what c resolved to.
func Settings(c config.Config) ([]byte, error) {
	rel := func(p string) string {
		if r, err := filepath.Rel(c.BaseDir, p); err == nil && !strings.HasPrefix(r, "..") {
			return filepath.ToSlash(r)
		}
		return p
	}
	rels := func(ps []string) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, rel(p))
		}
		return out
	}

	debug := c.Debug
	automaticDownload := c.AutomaticDownload
	cliPath := c.CLIPath
	s := models.Settings{
		Debug:             &debug,
		StaticURL:         c.StaticURL,
		StaticFilesDirs:   rels(c.StaticFilesDirs),
		TemplateDirs:      rels(c.TemplateDirs),
		ServerCommand:     c.ServerCommand,
		ServerPlusCommand: c.ServerPlusCommand,
		TailwindCLI: models.TailwindCLI{
			Version:           c.Version,
			Path:              &cliPath,
			AutomaticDownload: &automaticDownload,
			SrcCSS:            c.SrcCSS,
			DistCSS:           c.DistCSS,
			ConfigFile:        c.ConfigFile,
			SrcRepo:           c.SrcRepo,
			AssetName:         c.AssetName,
		},
	}
	return yaml.Marshal(s)
}
