package daemon

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/treetile/internal/config"
)

// ErrAlreadyRunning is returned when another daemon answers on the socket.
var ErrAlreadyRunning = errors.New("treetile daemon is already running")

// Options configures Run.
type Options struct {
	// ConfigPath is the main config file. Empty means the default location.
	ConfigPath string
	// Display is the X display to connect to. Empty means $DISPLAY.
	Display string
	Logger  *slog.Logger
	// OnConfig is called with every successfully loaded config, including the
	// first one.
	OnConfig func(*config.Config)
}
