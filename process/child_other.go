// +build !windows

package process

import (
	"context"
	"io"
	"net"

	"github.com/flinuxgo/core/signal"
)

// newChildPipe backs the death pipe with an in-memory net.Pipe on non-
// Windows builds; nothing here creates real guest child processes outside
// of Windows, so this exists purely so the package and its tests build
// cross-platform (the real inheritable-handle pipe is child_windows.go).
func newChildPipe(ctx context.Context) (name string, writeEnd io.Closer, readEnd signal.ChildDeathReader, err error) {
	a, b := net.Pipe()
	return "flinuxgo-child-fake", a, b, nil
}
