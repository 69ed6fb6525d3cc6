package runner

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/twcli/twcli/log"
)

// ErrMissingDependencies is returned when the development server command is
// not installed.
var ErrMissingDependencies = errors.New("Missing dependencies.")

// RunServer runs `twcli watch` next to the development server and waits for
// both to exit. Only ctx being done stops them early.
func (r *Runner) RunServer(ctx context.Context, args []string) error {
	return r.runServer(ctx, r.Config.ServerCommand, args)
}

// RunServerPlus is RunServer with the live reloading server command.
func (r *Runner) RunServerPlus(ctx context.Context, args []string) error {
	server := r.Config.ServerPlusCommand
	if len(server) == 0 {
		return errors.Wrap(ErrMissingDependencies, "SERVER_PLUS_COMMAND is empty")
	}
	if _, err := r.Exec.LookPath(server[0]); err != nil {
		return errors.Wrapf(ErrMissingDependencies, "'%s' is not installed", server[0])
	}
	return r.runServer(ctx, server, args)
}

// ServerCmds returns the watch and server command lines run by RunServer.
func (r *Runner) ServerCmds(server, args []string) ([][]string, error) {
	if len(server) == 0 {
		return nil, errors.New("SERVER_COMMAND is empty")
	}
	self := r.Self
	if self == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, errors.Wrap(err, "could not locate twcli executable")
		}
		self = exe
	}

	watch := []string{self}
	if r.Config.SettingsFile != "" {
		watch = append(watch, "--settings", r.Config.SettingsFile)
	}
	watch = append(watch, "watch")

	srv := append(append([]string(nil), server...), args...)
	return [][]string{watch, srv}, nil
}

func (r *Runner) runServer(ctx context.Context, server, args []string) error {
	if err := r.Prepare(ctx); err != nil {
		return err
	}
	cmds, err := r.ServerCmds(server, args)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, cmd := range cmds {
		cmd := cmd
		g.Go(func() error {
			if err := r.Exec.Run(ctx, r.Config.BaseDir, cmd[0], cmd[1:]...); err != nil {
				return errors.Wrapf(err, "'%s' failed", cmd[0])
			}
			return nil
		})
	}

	err = g.Wait()
	if ctx.Err() != nil {
		log.G(ctx).Debug("Development server interrupted")
		return nil
	}
	return err
}
