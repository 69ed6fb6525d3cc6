package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/log"
	"github.com/twcli/twcli/models"
)

type fakeExec struct {
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeExec) Run(ctx context.Context, dir, name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil
}

func (f *fakeExec) LookPath(file string) (string, error) {
	return "", errors.New("not found")
}

type fakeFetcher struct {
	urls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("#!/bin/sh\n"), 0755)
}

type fakeReleases struct {
	version string
}

func (f fakeReleases) LatestVersion(ctx context.Context, repo string) (string, error) {
	if repo != config.DefaultSrcRepo {
		return "", errors.Errorf("unexpected repo %s", repo)
	}
	return f.version, nil
}

type fixture struct {
	dir   string
	env   map[string]string
	out   *bytes.Buffer
	exec  *fakeExec
	fetch *fakeFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	return &fixture{
		dir: dir,
		env: map[string]string{
			"STATICFILES_DIRS":     filepath.Join(dir, "assets"),
			"TEMPLATE_DIRS":        filepath.Join(dir, "templates"),
			"TAILWIND_CLI_PATH":    filepath.Join(dir, "bin"),
			"TAILWIND_CLI_VERSION": "3.4.11",
		},
		out:   &bytes.Buffer{},
		exec:  &fakeExec{},
		fetch: &fakeFetcher{},
	}
}

func (f *fixture) run(args ...string) error {
	lookup := func(key string) (string, error) {
		if v, ok := f.env[key]; ok {
			return v, nil
		}
		return "", errors.Errorf("%s not set", key)
	}
	app := NewApp(log.WithLogger(context.Background(), log.Discard()), Deps{
		Out: f.out,
		Loader: &config.Loader{
			Lookup:   lookup,
			WorkDir:  f.dir,
			Platform: models.Platform{OS: "linux", Arch: "x64"},
		},
		Exec:     f.exec,
		Fetcher:  f.fetch,
		Releases: fakeReleases{version: "3.4.13"},
		Self:     "/usr/local/bin/twcli",
	})
	return app.Run(append([]string{"twcli"}, args...))
}

func TestBuildTwice(t *testing.T) {
	f := newFixture(t)

	if err := f.run("build"); err != nil {
		t.Fatal(err)
	}
	first := f.out.String()
	for _, s := range []string{
		"Tailwind CSS CLI not found.",
		"Downloading Tailwind CSS CLI from 'https://github.com/tailwindlabs/tailwindcss/releases/download/v3.4.11/tailwindcss-linux-x64'",
		"Tailwind CSS config not found.",
		"Built production stylesheet",
	} {
		if !strings.Contains(first, s) {
			t.Errorf("first build output missing %q:\n%s", s, first)
		}
	}

	f.out.Reset()
	if err := f.run("build"); err != nil {
		t.Fatal(err)
	}
	dist := filepath.Join(f.dir, "assets", "css", "tailwind.css")
	if got, want := f.out.String(), "Built production stylesheet '"+dist+"'.\n"; got != want {
		t.Errorf("second build output = %q, want %q", got, want)
	}

	cli := filepath.Join(f.dir, "bin", "tailwindcss-linux-x64-3.4.11")
	build := []string{cli, "--output", dist, "--minify"}
	if diff := cmp.Diff([][]string{build, build}, f.exec.calls); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestWithoutAutomaticDownload(t *testing.T) {
	for _, cmd := range []string{"build", "watch"} {
		t.Run(cmd, func(t *testing.T) {
			f := newFixture(t)
			f.env["TAILWIND_CLI_AUTOMATIC_DOWNLOAD"] = "false"

			err := f.run(cmd)
			if err == nil || !strings.Contains(err.Error(), "CLI not found") {
				t.Fatalf("%s = %v, want CLI not found", cmd, err)
			}
			if len(f.fetch.urls) != 0 || len(f.exec.calls) != 0 {
				t.Errorf("unexpected work: downloads %v, commands %v", f.fetch.urls, f.exec.calls)
			}
		})
	}
}

func TestConfigurationError(t *testing.T) {
	f := newFixture(t)
	f.env["STATICFILES_DIRS"] = ""

	for _, cmd := range []string{"build", "watch", "list_templates", "runserver", "installcli"} {
		err := f.run(cmd)
		if errors.Cause(err) != config.ErrNoStaticFilesDirs {
			t.Errorf("%s = %v, want ErrNoStaticFilesDirs", cmd, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), "Configuration error: STATICFILES_DIRS is empty") {
			t.Errorf("%s error = %q", cmd, err)
		}
	}
}

func TestLatestVersion(t *testing.T) {
	f := newFixture(t)
	f.env["TAILWIND_CLI_VERSION"] = "latest"

	if err := f.run("installcli"); err != nil {
		t.Fatal(err)
	}
	want := []string{"https://github.com/tailwindlabs/tailwindcss/releases/download/v3.4.13/tailwindcss-linux-x64"}
	if diff := cmp.Diff(want, f.fetch.urls); diff != "" {
		t.Errorf("downloads mismatch (-want +got):\n%s", diff)
	}

	err := f.run("download_cli")
	if err == nil || !strings.Contains(err.Error(), "already installed") {
		t.Errorf("second download_cli = %v", err)
	}
}

func TestRunServerPassesArgs(t *testing.T) {
	f := newFixture(t)

	if err := f.run("runserver", "-addr", ":9000"); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range f.exec.calls {
		if cmp.Equal(c, []string{"go", "run", ".", "-addr", ":9000"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("server not started with args: %v", f.exec.calls)
	}

	err := f.run("runserver_plus")
	if err == nil || !strings.Contains(err.Error(), "Missing dependencies.") {
		t.Errorf("runserver_plus = %v", err)
	}
}

func TestListTemplatesAlias(t *testing.T) {
	f := newFixture(t)
	tpl := filepath.Join(f.dir, "templates", "base.gohtml")
	if err := os.MkdirAll(filepath.Dir(tpl), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tpl, nil, 0644); err != nil {
		t.Fatal(err)
	}

	for _, cmd := range []string{"list_templates", "listtemplates"} {
		f.out.Reset()
		if err := f.run(cmd); err != nil {
			t.Fatal(err)
		}
		if got := f.out.String(); got != tpl+"\n" {
			t.Errorf("%s output = %q", cmd, got)
		}
	}
}

func TestInitFromScratch(t *testing.T) {
	f := newFixture(t)
	delete(f.env, "STATICFILES_DIRS")
	delete(f.env, "TEMPLATE_DIRS")

	if err := f.run("init"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"Created settings at", "Created Tailwind CSS config at", "Created source stylesheet at"} {
		if !strings.Contains(f.out.String(), s) {
			t.Errorf("init output missing %q:\n%s", s, f.out.String())
		}
	}

	// the written settings file is picked up by the next command
	f.out.Reset()
	if err := f.run("build"); err != nil {
		t.Fatal(err)
	}
	last := f.exec.calls[len(f.exec.calls)-1]
	wantInput := filepath.Join(f.dir, "css", "source.css")
	if last[len(last)-1] != wantInput {
		t.Errorf("build command = %v, want --input %s", last, wantInput)
	}

	if err := f.run("init"); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second init = %v", err)
	}
}

func TestCSSTag(t *testing.T) {
	f := newFixture(t)

	if err := f.run("css_tag"); err != nil {
		t.Fatal(err)
	}
	want := `<link rel="preload" href="/static/css/tailwind.css" as="style"><link rel="stylesheet" href="/static/css/tailwind.css">` + "\n"
	if got := f.out.String(); got != want {
		t.Errorf("css_tag = %q, want %q", got, want)
	}

	f.env["DEBUG"] = "true"
	f.out.Reset()
	if err := f.run("css_tag"); err != nil {
		t.Fatal(err)
	}
	if got := f.out.String(); strings.Contains(got, "preload") {
		t.Errorf("debug css_tag = %q", got)
	}
}

func TestConfigTable(t *testing.T) {
	f := newFixture(t)
	f.env["STATICFILES_DIRS"] = ""

	if err := f.run("config"); err != nil {
		t.Fatal(err)
	}
	out := f.out.String()
	for _, s := range []string{"Setting", "TAILWIND_CLI_VERSION", "3.4.11", "missing", "STATICFILES_DIRS is empty"} {
		if !strings.Contains(out, s) {
			t.Errorf("config output missing %q:\n%s", s, out)
		}
	}
}

func TestInvalidChoice(t *testing.T) {
	f := newFixture(t)

	err := f.run("compile")
	if err == nil {
		t.Fatal("unknown command should fail")
	}
	if !strings.HasPrefix(err.Error(), "invalid choice: 'compile' (choose from 'build', 'watch', 'list_templates'") {
		t.Errorf("error = %q", err)
	}
}
