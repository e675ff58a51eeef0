//go:build !linux

package daemon

import (
	"context"
	"errors"
)

// Run is only implemented for X11 on Linux.
func Run(context.Context, Options) error {
	return errors.New("treetile daemon requires X11 on linux")
}
