// Package commands assembles the twcli command line application.
package commands

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/log"
	"github.com/twcli/twcli/printer"
	"github.com/twcli/twcli/release"
	"github.com/twcli/twcli/runner"
	"github.com/twcli/twcli/templatetag"
)

// Version of twcli.
const Version = "0.1.0"

// ReleaseResolver finds the newest published CLI version.
type ReleaseResolver interface {
	LatestVersion(ctx context.Context, repo string) (string, error)
}

// Deps are the collaborators of the application. Zero values fall back to the
// process environment, real child processes and the GitHub API.
type Deps struct {
	Out      io.Writer
	Loader   *config.Loader
	Exec     runner.Executor
	Fetcher  runner.Fetcher
	Releases ReleaseResolver

	// Self is passed to runner.Runner.Self.
	Self string
}

type app struct {
	ctx      context.Context
	deps     Deps
	out      *printer.Printer
	settings string
	verbose  bool
}

// NewApp returns the twcli application. ctx is canceled on operator
// interrupt; long running commands then stop their child processes.
func NewApp(ctx context.Context, deps Deps) *cli.App {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Loader == nil {
		deps.Loader = &config.Loader{}
	}
	a := &app{ctx: ctx, deps: deps, out: printer.New(deps.Out)}

	cliApp := cli.NewApp()
	cliApp.Name = "twcli"
	cliApp.Usage = "Build and watch Tailwind CSS stylesheets with the standalone CLI"
	cliApp.Version = Version
	cliApp.Writer = deps.Out
	cliApp.ErrWriter = deps.Out

	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "settings, s",
			Usage:       "Settings file (default: tailwind.yaml, tailwind.yml or tailwind.lua in the working directory)",
			Destination: &a.settings,
		}, cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Full debug log",
			Destination: &a.verbose,
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetVerbose(a.verbose)
		return nil
	}

	commands := []cli.Command{
		{
			Name:   "build",
			Usage:  "Build a minified production stylesheet",
			Action: a.build,
		},
		{
			Name:   "watch",
			Usage:  "Rebuild the stylesheet whenever templates change",
			Action: a.watch,
		},
		{
			Name:    "list_templates",
			Aliases: []string{"listtemplates"},
			Usage:   "List the templates scanned for class names",
			Action:  a.listTemplates,
		},
		{
			Name:            "runserver",
			Usage:           "Run the development server next to watch mode",
			ArgsUsage:       "[server args...]",
			SkipFlagParsing: true,
			Action:          a.runServer,
		},
		{
			Name:            "runserver_plus",
			Usage:           "Run the live reloading development server next to watch mode",
			ArgsUsage:       "[server args...]",
			SkipFlagParsing: true,
			Action:          a.runServerPlus,
		},
		{
			Name:    "installcli",
			Aliases: []string{"download_cli"},
			Usage:   "Download the Tailwind CSS CLI",
			Action:  a.installCLI,
		},
		{
			Name:   "init",
			Usage:  "Create the settings, Tailwind config and source stylesheet of a new project",
			Action: a.initProject,
		},
		{
			Name:   "config",
			Usage:  "Show the resolved settings",
			Action: a.showConfig,
		},
		{
			Name:   "css_tag",
			Usage:  "Print the HTML that loads the stylesheet",
			Action: a.cssTag,
		},
	}
	cliApp.Commands = commands

	cliApp.Action = func(c *cli.Context) error {
		if c.NArg() > 0 {
			return errors.Errorf("invalid choice: '%s' (choose from %s)", c.Args().First(), choices(commands))
		}
		return cli.ShowAppHelp(c)
	}
	return cliApp
}

func choices(cmds []cli.Command) string {
	names := []string{}
	for _, cmd := range cmds {
		names = append(names, "'"+cmd.Name+"'")
	}
	return strings.Join(names, ", ")
}

// config loads the settings for one invocation. "latest" is resolved to a
// concrete version when resolve is set.
func (a *app) config(validate, resolve bool) (config.Config, error) {
	c, err := a.deps.Loader.Load(a.settings)
	if err != nil {
		return c, errors.Wrap(err, "Configuration error")
	}
	if validate {
		if err := c.Validate(); err != nil {
			return c, errors.Wrap(err, "Configuration error")
		}
	}

	if resolve && c.Version == config.LatestVersion {
		releases := a.deps.Releases
		if releases == nil {
			releases = release.NewClient(a.ctx)
		}
		v, err := releases.LatestVersion(a.ctx, c.SrcRepo)
		if err != nil {
			return c, errors.Wrap(err, "could not resolve the latest Tailwind CSS CLI version")
		}
		log.G(a.ctx).Debugf("Resolved latest Tailwind CSS CLI version to %s", v)
		c = c.WithVersion(v)
	}
	return c, nil
}

func (a *app) runner(validate bool) (*runner.Runner, error) {
	c, err := a.config(validate, true)
	if err != nil {
		return nil, err
	}
	r := runner.New(c, a.out)
	if a.deps.Exec != nil {
		r.Exec = a.deps.Exec
	}
	if a.deps.Fetcher != nil {
		r.Fetcher = a.deps.Fetcher
	}
	r.Self = a.deps.Self
	return r, nil
}

func (a *app) build(c *cli.Context) error {
	r, err := a.runner(true)
	if err != nil {
		return err
	}
	return r.Build(a.ctx)
}

func (a *app) watch(c *cli.Context) error {
	r, err := a.runner(true)
	if err != nil {
		return err
	}
	return r.Watch(a.ctx)
}

// listTemplates runs on every Tailwind build through tailwind.config.js, so
// it does not resolve "latest".
func (a *app) listTemplates(c *cli.Context) error {
	cfg, err := a.config(true, false)
	if err != nil {
		return err
	}
	return runner.New(cfg, a.out).ListTemplates()
}

func (a *app) runServer(c *cli.Context) error {
	r, err := a.runner(true)
	if err != nil {
		return err
	}
	return r.RunServer(a.ctx, c.Args())
}

func (a *app) runServerPlus(c *cli.Context) error {
	r, err := a.runner(true)
	if err != nil {
		return err
	}
	return r.RunServerPlus(a.ctx, c.Args())
}

func (a *app) installCLI(c *cli.Context) error {
	r, err := a.runner(true)
	if err != nil {
		return err
	}
	return r.InstallCLI(a.ctx)
}

func (a *app) initProject(c *cli.Context) error {
	r, err := a.runner(false)
	if err != nil {
		return err
	}
	return r.Init(a.ctx)
}

func (a *app) cssTag(c *cli.Context) error {
	cfg, err := a.config(false, false)
	if err != nil {
		return err
	}
	html, err := templatetag.TailwindCSS(cfg)
	if err != nil {
		return err
	}
	a.out.Println(string(html))
	return nil
}

func (a *app) showConfig(c *cli.Context) error {
	cfg, err := a.config(false, false)
	if err != nil {
		return err
	}
	a.out.Table(configRows(cfg))
	if err := cfg.Validate(); err != nil {
		a.out.Warning("%s", err)
	}
	return nil
}
