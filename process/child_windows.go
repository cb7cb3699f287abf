// +build windows

package process

import (
	"context"
	"fmt"
	"io"

	"github.com/Microsoft/go-winio"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/flinuxgo/core/signal"
)

// newChildPipe dials and listens the two ends of a child-death named pipe:
// the write end is meant to be inherited by the child process and closes
// automatically on process exit, at which point the listener side's Read
// returns EOF.
func newChildPipe(ctx context.Context) (name string, writeEnd io.Closer, readEnd signal.ChildDeathReader, err error) {
	name = fmt.Sprintf(`\\.\pipe\flinuxgo-child-%s`, uuid.NewString())

	l, err := winio.ListenPipe(name, &winio.PipeConfig{MessageMode: true})
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "ListenPipe")
	}

	type acceptResult struct {
		conn io.ReadCloser
		err  error
	}
	accepted := make(chan acceptResult, 1)
	go func() {
		c, err := l.Accept()
		accepted <- acceptResult{c, err}
	}()

	w, err := winio.DialPipeContext(ctx, name)
	if err != nil {
		l.Close()
		return "", nil, nil, errors.Wrap(err, "DialPipe")
	}

	res := <-accepted
	l.Close()
	if res.err != nil {
		w.Close()
		return "", nil, nil, errors.Wrap(res.err, "Accept")
	}

	return name, w, res.conn, nil
}
