// Package runner drives the Tailwind CSS CLI: it installs the executable when
// needed, scaffolds the Tailwind config and runs the build and watch modes.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/download"
	"github.com/twcli/twcli/log"
	"github.com/twcli/twcli/printer"
	"github.com/twcli/twcli/scaffold"
)

var (
	ErrAlreadyInstalled   = errors.New("Tailwind CSS CLI already installed")
	ErrAlreadyInitialized = errors.New("Tailwind CSS is already initialized")
)

// CLINotFoundError is returned when the executable is missing and automatic
// download is disabled.
type CLINotFoundError struct {
	Path string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("Tailwind CSS CLI not found at '%s'. Automatic download is disabled, install it with 'twcli installcli'.", e.Path)
}

// Fetcher downloads url to an executable file at dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

type Runner struct {
	Config  config.Config
	Out     *printer.Printer
	Exec    Executor
	Fetcher Fetcher

	// Self is the twcli executable, re-invoked for the watch process of
	// RunServer. Defaults to os.Executable().
	Self string
}

// New returns a Runner that executes real processes and downloads over HTTPS.
func New(c config.Config, out *printer.Printer) *Runner {
	checksums := ""
	if c.VerifyChecksum {
		checksums = c.ChecksumsURL()
	}
	return &Runner{
		Config:  c,
		Out:     out,
		Exec:    Exec{},
		Fetcher: download.New(checksums),
	}
}

// Prepare makes sure the CLI and the Tailwind config file exist.
func (r *Runner) Prepare(ctx context.Context) error {
	if err := r.ensureCLI(ctx); err != nil {
		return err
	}
	return r.ensureConfigFile()
}

func (r *Runner) ensureCLI(ctx context.Context) error {
	cliPath := r.Config.FullCLIPath()
	if exists(cliPath) {
		log.G(ctx).Debugf("Using Tailwind CSS CLI at %s", cliPath)
		return nil
	}
	if !r.Config.AutomaticDownload {
		return &CLINotFoundError{Path: cliPath}
	}

	r.Out.Error("Tailwind CSS CLI not found.")
	return r.download(ctx, cliPath)
}

func (r *Runner) download(ctx context.Context, dest string) error {
	url := r.Config.DownloadURL()
	r.Out.Warning("Downloading Tailwind CSS CLI from '%s'", url)
	if err := r.Fetcher.Fetch(ctx, url, dest); err != nil {
		return errors.Wrap(err, "could not download Tailwind CSS CLI")
	}
	r.Out.Success("Downloaded Tailwind CSS CLI to '%s'", dest)
	return nil
}

func (r *Runner) ensureConfigFile() error {
	configFile := r.Config.FullConfigFilePath()
	if exists(configFile) {
		return nil
	}

	r.Out.Error("Tailwind CSS config not found.")
	if err := r.writeConfigFile(configFile); err != nil {
		return err
	}
	r.Out.Success("Created Tailwind CSS config at '%s'", configFile)
	return nil
}

func (r *Runner) writeConfigFile(configFile string) error {
	content, err := scaffold.TailwindConfigString(r.Config)
	if err != nil {
		return errors.Wrap(err, "could not render Tailwind CSS config")
	}
	return writeFile(configFile, content)
}

// InstallCLI downloads the CLI, even when automatic download is disabled.
func (r *Runner) InstallCLI(ctx context.Context) error {
	cliPath := r.Config.FullCLIPath()
	if exists(cliPath) {
		return errors.Wrapf(ErrAlreadyInstalled, "'%s'", cliPath)
	}
	return r.download(ctx, cliPath)
}

// BuildCmd is the command line of a minified production build.
func (r *Runner) BuildCmd() ([]string, error) {
	return r.cmd("--minify")
}

// WatchCmd is the command line of watch mode.
func (r *Runner) WatchCmd() ([]string, error) {
	return r.cmd("--watch")
}

func (r *Runner) cmd(mode string) ([]string, error) {
	dist, err := r.Config.FullDistCSSPath()
	if err != nil {
		return nil, err
	}
	cmd := []string{r.Config.FullCLIPath(), "--output", dist, mode}
	if r.Config.SrcCSS != "" {
		src, err := r.Config.FullSrcCSSPath()
		if err != nil {
			return nil, err
		}
		cmd = append(cmd, "--input", src)
	}
	return cmd, nil
}

// Build compiles the production stylesheet. An interrupt through ctx is
// reported to the operator and is not an error.
func (r *Runner) Build(ctx context.Context) error {
	if err := r.Prepare(ctx); err != nil {
		return err
	}
	cmd, err := r.BuildCmd()
	if err != nil {
		return err
	}

	err = r.Exec.Run(ctx, r.Config.BaseDir, cmd[0], cmd[1:]...)
	if ctx.Err() != nil {
		r.Out.Error("Canceled building production stylesheet.")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "Tailwind CSS CLI failed")
	}

	dist, _ := r.Config.FullDistCSSPath()
	r.Out.Success("Built production stylesheet '%s'.", dist)
	return nil
}

// Watch runs the CLI in watch mode until it exits or ctx is done.
func (r *Runner) Watch(ctx context.Context) error {
	if err := r.Prepare(ctx); err != nil {
		return err
	}
	cmd, err := r.WatchCmd()
	if err != nil {
		return err
	}

	err = r.Exec.Run(ctx, r.Config.BaseDir, cmd[0], cmd[1:]...)
	if ctx.Err() != nil {
		r.Out.Success("Stopped watching for changes.")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "Tailwind CSS CLI failed")
	}
	return nil
}

// ListTemplates prints the template files Tailwind should scan.
func (r *Runner) ListTemplates() error {
	files, err := r.Config.TemplateFiles()
	if err != nil {
		return err
	}
	if len(files) > 0 {
		r.Out.Println(strings.Join(files, "\n"))
	}
	return nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func writeFile(p, content string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, "could not create %s", filepath.Dir(p))
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "could not write %s", p)
	}
	return nil
}
