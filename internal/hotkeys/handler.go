package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/treetile/internal/command"
	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/platform"
)

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler grabs the configured key sequences on the root window and hands
// the bound commands to a dispatch function.
type Handler struct {
	bind   func(seq string, callback func()) error
	unbind func()
	logger *slog.Logger

	mu    sync.Mutex
	bound []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler for an X11 backend.
func NewHandler(backend platform.Backend, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("key bindings need an X11 backend")
	}
	xu, root := accessor.XUtil(), accessor.RootWindow()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	bind := func(seq string, callback func()) error {
		return keybind.KeyPressFun(func(_ *xgbutil.XUtil, _ xevent.KeyPressEvent) {
			callback()
		}).Connect(xu, root, seq, true)
	}
	unbind := func() {
		keybind.Detach(xu, root)
	}
	return newHandler(bind, unbind, logger), nil
}

func newHandler(bind func(string, func()) error, unbind func(), logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{bind: bind, unbind: unbind, logger: logger}
}

// Apply replaces every binding with the ones in cfg. Callbacks run on the X
// event loop goroutine, so dispatch must not block for long. A sequence that
// cannot be grabbed is reported but does not stop the others.
func (h *Handler) Apply(cfg *config.Config, dispatch func(command.Command)) error {
	keys, cmds, err := cfg.Bindings()
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.bound) > 0 {
		h.unbind()
		h.bound = nil
	}

	var errs []error
	for _, key := range keys {
		cmd := cmds[key]
		if err := h.bind(key, func() {
			h.logger.Debug("hotkey pressed", "key", key, "command", cmd.String())
			dispatch(cmd)
		}); err != nil {
			h.logger.Warn("failed to bind key", "key", key, "command", cmd.String(), "error", err)
			errs = append(errs, fmt.Errorf("bind %s: %w", key, err))
			continue
		}
		h.bound = append(h.bound, key)
	}
	h.logger.Info("key bindings applied", "bound", len(h.bound), "failed", len(errs))
	return errors.Join(errs...)
}

// Bound returns the key sequences currently grabbed, sorted.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
