package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/twcli/twcli/log"
	"github.com/twcli/twcli/models"
	"github.com/twcli/twcli/platform"
)

// EnvPrefix qualifies the Tailwind CLI options in the environment.
const EnvPrefix = "TAILWIND_CLI_"

// SettingsFiles are looked up in the working directory when no settings file
// is given explicitly.
var SettingsFiles = []string{"tailwind.yaml", "tailwind.yml", "tailwind.lua"}

// Loader builds a Config from defaults, an optional settings file and the
// environment, in that order of precedence.
type Loader struct {
	// Lookup returns an environment value or an error when it is not set.
	// Defaults to envy.MustGet, which also sees a project .env file.
	Lookup func(key string) (string, error)
	// WorkDir is used to find settings files and as the fallback base dir.
	WorkDir  string
	Platform models.Platform
}

// Load is a shortcut for a Loader with the process environment.
func Load(settingsFile string) (Config, error) {
	return (&Loader{}).Load(settingsFile)
}

func (l *Loader) Load(settingsFile string) (Config, error) {
	workDir := l.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, errors.Wrap(err, "could not determine working directory")
		}
		workDir = wd
	}

	if settingsFile == "" {
		settingsFile = findSettingsFile(workDir)
	} else if !filepath.IsAbs(settingsFile) {
		settingsFile = filepath.Join(workDir, settingsFile)
	}

	var s models.Settings
	baseDir := workDir
	if settingsFile != "" {
		var err error
		s, err = ReadSettings(settingsFile)
		if err != nil {
			return Config{}, err
		}
		baseDir = filepath.Dir(settingsFile)
		log.L.Debugf("Read settings from %s", settingsFile)
	}

	if v, ok := l.lookup("BASE_DIR"); ok {
		s.BaseDir = v
	}
	if s.BaseDir != "" {
		baseDir = absolute(baseDir, s.BaseDir)
	}

	c := Default(baseDir)
	c.SettingsFile = settingsFile
	if l.Platform != (models.Platform{}) {
		c.Platform = l.Platform
	} else {
		c.Platform = platform.Current()
	}
	apply(&c, s)

	if err := l.applyEnv(&c); err != nil {
		return Config{}, err
	}

	for i, d := range c.StaticFilesDirs {
		c.StaticFilesDirs[i] = absolute(c.BaseDir, d)
	}
	for i, d := range c.TemplateDirs {
		c.TemplateDirs[i] = absolute(c.BaseDir, d)
	}
	return c, nil
}

// ReadSettings parses a YAML or Lua settings file, chosen by extension.
func ReadSettings(path string) (models.Settings, error) {
	var s models.Settings

	b, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "could not read settings file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		s, err = readLua(string(b))
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &s)
	default:
		err = errors.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
	if err != nil {
		return s, errors.Wrapf(err, "invalid settings file %s", path)
	}
	return s, nil
}

// readLua expects the script to define a global `settings` table.
func readLua(content string) (models.Settings, error) {
	var s models.Settings

	l := lua.NewState()
	defer l.Close()
	if err := l.DoString(content); err != nil {
		return s, err
	}
	tbl, ok := l.GetGlobal("settings").(*lua.LTable)
	if !ok {
		return s, errors.New("no global 'settings' table defined")
	}
	if err := gluamapper.Map(tbl, &s); err != nil {
		return s, err
	}
	return s, nil
}

func apply(c *Config, s models.Settings) {
	if s.Debug != nil {
		c.Debug = *s.Debug
	}
	if s.StaticURL != "" {
		c.StaticURL = s.StaticURL
	}
	if len(s.StaticFilesDirs) > 0 {
		c.StaticFilesDirs = append([]string(nil), s.StaticFilesDirs...)
	}
	if len(s.TemplateDirs) > 0 {
		c.TemplateDirs = append([]string(nil), s.TemplateDirs...)
	}
	if len(s.ServerCommand) > 0 {
		c.ServerCommand = append([]string(nil), s.ServerCommand...)
	}
	if len(s.ServerPlusCommand) > 0 {
		c.ServerPlusCommand = append([]string(nil), s.ServerPlusCommand...)
	}

	t := s.TailwindCLI
	if t.Version != "" {
		c.Version = t.Version
	}
	if t.Path != nil {
		c.CLIPath = *t.Path
	}
	if t.AutomaticDownload != nil {
		c.AutomaticDownload = *t.AutomaticDownload
	}
	if t.SrcCSS != "" {
		c.SrcCSS = t.SrcCSS
	}
	if t.DistCSS != "" {
		c.DistCSS = t.DistCSS
	}
	if t.ConfigFile != "" {
		c.ConfigFile = t.ConfigFile
	}
	if t.SrcRepo != "" {
		c.SrcRepo = t.SrcRepo
	}
	if t.AssetName != "" {
		c.AssetName = t.AssetName
	}
	if t.VerifyChecksum != nil {
		c.VerifyChecksum = *t.VerifyChecksum
	}
}

func (l *Loader) applyEnv(c *Config) error {
	strs := map[string]*string{
		EnvPrefix + "VERSION":     &c.Version,
		EnvPrefix + "PATH":        &c.CLIPath,
		EnvPrefix + "SRC_CSS":     &c.SrcCSS,
		EnvPrefix + "DIST_CSS":    &c.DistCSS,
		EnvPrefix + "CONFIG_FILE": &c.ConfigFile,
		EnvPrefix + "SRC_REPO":    &c.SrcRepo,
		EnvPrefix + "ASSET_NAME":  &c.AssetName,
		"STATIC_URL":              &c.StaticURL,
	}
	for key, dst := range strs {
		if v, ok := l.lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		EnvPrefix + "AUTOMATIC_DOWNLOAD": &c.AutomaticDownload,
		EnvPrefix + "VERIFY_CHECKSUM":    &c.VerifyChecksum,
		"DEBUG":                          &c.Debug,
	}
	for key, dst := range bools {
		v, ok := l.lookup(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		*dst = b
	}

	lists := map[string]*[]string{
		"STATICFILES_DIRS": &c.StaticFilesDirs,
		"TEMPLATE_DIRS":    &c.TemplateDirs,
	}
	for key, dst := range lists {
		if v, ok := l.lookup(key); ok {
			*dst = nonEmpty(filepath.SplitList(v))
		}
	}

	commands := map[string]*[]string{
		"SERVER_COMMAND":      &c.ServerCommand,
		"SERVER_PLUS_COMMAND": &c.ServerPlusCommand,
	}
	for key, dst := range commands {
		if v, ok := l.lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.Fields(v)
		}
	}
	return nil
}

func (l *Loader) lookup(key string) (string, bool) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = envy.MustGet
	}
	v, err := lookup(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func findSettingsFile(dir string) string {
	for _, name := range SettingsFiles {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

func absolute(base, p string) string {
	p = filepath.FromSlash(expandUser(p))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
