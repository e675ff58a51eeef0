package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/1broseidon/treetile/internal/command"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

// Commander is the set of tiler operations a command can trigger.
type Commander interface {
	MoveActive(dir tiling.Direction) (bool, error)
	Focus(target string) (platform.WindowID, bool, error)
	ToggleFullscreen() (bool, error)
	CloseActive() (platform.WindowID, error)
}

// DispatcherOptions supplies the side effects a Dispatcher cannot perform on
// the tiler. Nil hooks make the matching commands fail.
type DispatcherOptions struct {
	Reload    func() error
	Terminate func()
	// Spawn starts a program detached from the daemon. It defaults to
	// StartDetached.
	Spawn  func(args []string) error
	Logger *slog.Logger
}

// Dispatcher executes parsed commands from key bindings.
type Dispatcher struct {
	tiler     Commander
	reload    func() error
	terminate func()
	spawn     func(args []string) error
	logger    *slog.Logger
}

func NewDispatcher(tiler Commander, opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		tiler:     tiler,
		reload:    opts.Reload,
		terminate: opts.Terminate,
		spawn:     opts.Spawn,
		logger:    opts.Logger,
	}
	if d.spawn == nil {
		d.spawn = StartDetached
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Run executes cmd.
func (d *Dispatcher) Run(cmd command.Command) error {
	err := d.run(cmd)
	switch {
	case errors.Is(err, tiling.ErrNoActiveWindow):
		d.logger.Debug("command needs a focused window", "command", cmd.String())
	case err != nil:
		d.logger.Warn("command failed", "command", cmd.String(), "error", err)
	}
	return err
}

// Handle is Run for callers that only log failures, such as key bindings.
func (d *Dispatcher) Handle(cmd command.Command) {
	_ = d.Run(cmd)
}

func (d *Dispatcher) run(cmd command.Command) error {
	switch cmd.Kind {
	case command.MoveActiveWindow:
		dir, err := tiling.ParseDirection(cmd.Direction)
		if err != nil {
			return err
		}
		_, err = d.tiler.MoveActive(dir)
		return err
	case command.Focus:
		_, _, err := d.tiler.Focus(cmd.Direction)
		return err
	case command.FocusNext:
		_, _, err := d.tiler.Focus("next")
		return err
	case command.FocusPrevious:
		_, _, err := d.tiler.Focus("previous")
		return err
	case command.ToggleFullscreen:
		_, err := d.tiler.ToggleFullscreen()
		return err
	case command.CloseActiveWindow:
		_, err := d.tiler.CloseActive()
		return err
	case command.Exec:
		d.logger.Info("spawning", "args", cmd.Args)
		return d.spawn(cmd.Args)
	case command.Reload:
		if d.reload == nil {
			return errors.New("reload is not available")
		}
		return d.reload()
	case command.Terminate:
		if d.terminate == nil {
			return errors.New("terminate is not available")
		}
		d.logger.Info("terminate requested")
		d.terminate()
		return nil
	default:
		return fmt.Errorf("unsupported command %q", cmd.Kind)
	}
}

// StartDetached starts args[0] in its own session and reaps it in the
// background.
func StartDetached(args []string) error {
	if len(args) == 0 {
		return errors.New("exec: no program given")
	}
	c := exec.Command(args[0], args[1:]...)
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := c.Start(); err != nil {
		return fmt.Errorf("exec %s: %w", args[0], err)
	}
	go c.Wait()
	return nil
}
