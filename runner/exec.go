package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/twcli/twcli/log"
)

// Executor starts external programs.
type Executor interface {
	// Run blocks until the program exits. When ctx is done the program is
	// interrupted and Run returns once it has been reaped.
	Run(ctx context.Context, dir, name string, args ...string) error
	LookPath(file string) (string, error)
}

// Exec runs programs as child processes sharing this process's terminal.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer

	// WaitDelay bounds how long an interrupted child may take to exit
	// before it is killed.
	WaitDelay time.Duration
}

func (e Exec) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 10 * time.Second
	}

	log.G(ctx).Debugf("Running in %s: %s %s", dir, name, strings.Join(args, " "))
	return cmd.Run()
}

func (e Exec) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
