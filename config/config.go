// Package config resolves the settings of a project and the on-disk
// locations derived from them: the Tailwind CSS CLI executable, the source
// and compiled stylesheets and the Tailwind config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/twcli/twcli/models"
	"github.com/twcli/twcli/platform"
)

const (
	DefaultVersion    = "3.4.11"
	DefaultPath       = "~/.local/bin/"
	DefaultDistCSS    = "css/tailwind.css"
	DefaultConfigFile = "tailwind.config.js"
	DefaultSrcRepo    = "tailwindlabs/tailwindcss"
	DefaultAssetName  = "tailwindcss"
	DefaultStaticURL  = "/static/"

	// LatestVersion asks for the newest release of SrcRepo.
	LatestVersion = "latest"
)

var (
	DefaultServerCommand     = []string{"go", "run", "."}
	DefaultServerPlusCommand = []string{"air"}
)

var (
	ErrNoStaticFilesDirs = errors.New("STATICFILES_DIRS is empty. Please add a path to your static files.")
	ErrNoSrcCSS          = errors.New("No source CSS file specified. Please set TAILWIND_CLI_SRC_CSS in your settings.")
)

// Config is a read-only snapshot of the settings for one command invocation.
// Methods use value receivers and never modify it; WithVersion returns a copy.
type Config struct {
	Version           string
	CLIPath           string // empty means BaseDir
	AutomaticDownload bool
	SrcCSS            string // empty means unset
	DistCSS           string
	ConfigFile        string
	SrcRepo           string
	AssetName         string
	VerifyChecksum    bool

	BaseDir           string
	Debug             bool
	StaticURL         string
	StaticFilesDirs   []string
	TemplateDirs      []string
	ServerCommand     []string
	ServerPlusCommand []string

	// SettingsFile is the file the settings were read from, empty if none.
	SettingsFile string
	Platform     models.Platform
}

// Default returns the configuration used when nothing overrides it.
func Default(baseDir string) Config {
	return Config{
		Version:           DefaultVersion,
		CLIPath:           DefaultPath,
		AutomaticDownload: true,
		DistCSS:           DefaultDistCSS,
		ConfigFile:        DefaultConfigFile,
		SrcRepo:           DefaultSrcRepo,
		AssetName:         DefaultAssetName,
		BaseDir:           baseDir,
		StaticURL:         DefaultStaticURL,
		ServerCommand:     append([]string(nil), DefaultServerCommand...),
		ServerPlusCommand: append([]string(nil), DefaultServerPlusCommand...),
		Platform:          platform.Current(),
	}
}

// WithVersion returns a copy of c pinned to version.
func (c Config) WithVersion(version string) Config {
	c.Version = version
	return c
}

// Validate reports settings that make every command fail.
func (c Config) Validate() error {
	if len(c.StaticFilesDirs) == 0 {
		return ErrNoStaticFilesDirs
	}
	return nil
}

// ExecutableName is the version and platform qualified file name of the CLI.
func (c Config) ExecutableName() string {
	return fmt.Sprintf("tailwindcss-%s-%s%s", c.Platform, c.Version, c.Platform.Extension())
}

// AssetFileName is the name of the release asset for this platform.
func (c Config) AssetFileName() string {
	return fmt.Sprintf("%s-%s%s", c.AssetName, c.Platform, c.Platform.Extension())
}

// releaseURL accepts the version with or without the "v" of the release tag.
func (c Config) releaseURL() string {
	return fmt.Sprintf("https://github.com/%s/releases/download/v%s/", c.SrcRepo, strings.TrimPrefix(c.Version, "v"))
}

// DownloadURL is where the CLI for this platform and version is published.
func (c Config) DownloadURL() string {
	return c.releaseURL() + c.AssetFileName()
}

// ChecksumsURL is the sha256sums.txt published next to the release assets.
func (c Config) ChecksumsURL() string {
	return c.releaseURL() + "sha256sums.txt"
}

// FullCLIPath returns the configured path itself if it is an executable file,
// otherwise the versioned executable name inside the install directory.
func (c Config) FullCLIPath() string {
	if c.CLIPath == "" {
		return filepath.Join(c.BaseDir, c.ExecutableName())
	}

	cliPath := expandUser(c.CLIPath)
	if isExecutable(cliPath) {
		return cliPath
	}
	return filepath.Join(cliPath, c.ExecutableName())
}

// FullSrcCSSPath fails with ErrNoSrcCSS when no source stylesheet is configured.
func (c Config) FullSrcCSSPath() (string, error) {
	if c.SrcCSS == "" {
		return "", ErrNoSrcCSS
	}
	return c.join(c.SrcCSS), nil
}

// FullDistCSSPath places the compiled stylesheet in the first static files dir.
func (c Config) FullDistCSSPath() (string, error) {
	if len(c.StaticFilesDirs) == 0 {
		return "", ErrNoStaticFilesDirs
	}
	return filepath.Join(c.StaticFilesDirs[0], filepath.FromSlash(c.DistCSS)), nil
}

func (c Config) FullConfigFilePath() string {
	return c.join(c.ConfigFile)
}

// StylesheetURL is the public URL of the compiled stylesheet.
func (c Config) StylesheetURL() string {
	return strings.TrimSuffix(c.StaticURL, "/") + "/" + strings.TrimPrefix(filepath.ToSlash(c.DistCSS), "/")
}

func (c Config) join(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func expandUser(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func isExecutable(p string) bool {
	st, err := os.Stat(p)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(p), ".exe")
	}
	return st.Mode().Perm()&0111 != 0
}
