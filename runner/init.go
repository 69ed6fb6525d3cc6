package runner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/scaffold"
)

// DefaultSrcCSS is the source stylesheet created by Init when none is set.
const DefaultSrcCSS = "css/source.css"

// Init bootstraps a project: a settings file when none was read, the Tailwind
// config, the source stylesheet and the CLI itself. It refuses to touch a
// project that already has a Tailwind config.
func (r *Runner) Init(ctx context.Context) error {
	c := r.Config
	configFile := c.FullConfigFilePath()
	if exists(configFile) {
		return errors.Wrapf(ErrAlreadyInitialized, "'%s' exists", configFile)
	}

	if c.SettingsFile == "" {
		if len(c.StaticFilesDirs) == 0 {
			c.StaticFilesDirs = []string{filepath.Join(c.BaseDir, "static")}
		}
		if len(c.TemplateDirs) == 0 {
			c.TemplateDirs = []string{filepath.Join(c.BaseDir, "templates")}
		}
		if c.SrcCSS == "" {
			c.SrcCSS = DefaultSrcCSS
		}

		settingsFile := filepath.Join(c.BaseDir, config.SettingsFiles[0])
		content, err := scaffold.Settings(c)
		if err != nil {
			return errors.Wrap(err, "could not render settings")
		}
		if err := writeFile(settingsFile, string(content)); err != nil {
			return err
		}
		c.SettingsFile = settingsFile
		r.Out.Success("Created settings at '%s'", settingsFile)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	nr := *r
	nr.Config = c

	if err := nr.writeConfigFile(configFile); err != nil {
		return err
	}
	r.Out.Success("Created Tailwind CSS config at '%s'", configFile)

	if c.SrcCSS != "" {
		src, err := c.FullSrcCSSPath()
		if err != nil {
			return err
		}
		if !exists(src) {
			if err := writeFile(src, scaffold.SourceCSS); err != nil {
				return err
			}
			r.Out.Success("Created source stylesheet at '%s'", src)
		}
	}

	for _, dir := range c.TemplateDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "could not create %s", dir)
		}
	}

	return nr.ensureCLI(ctx)
}
