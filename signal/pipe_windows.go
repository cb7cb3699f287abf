// +build windows

package signal

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// winPipe binds the signal ingress channel to a real named pipe in message
// mode, the idiomatic Go realization of spec.md §4.5's "one-way message
// pipe bound to an IOCP" — go-winio's pipes are already IOCP-backed.
type winPipe struct {
	listener net.Listener
	writer   net.Conn // the emulator's own ingress handle, dialed once at construction
	reader   net.Conn // accepted server-side end, read from in Recv
}

func newWinPipe(ctx context.Context) (*winPipe, error) {
	name := fmt.Sprintf(`\\.\pipe\flinuxgo-sig-%s`, uuid.NewString())

	l, err := winio.ListenPipe(name, &winio.PipeConfig{MessageMode: true})
	if err != nil {
		return nil, errors.Wrap(err, "ListenPipe")
	}

	type acceptResult struct {
		conn net.Conn
		err  error
	}
	accepted := make(chan acceptResult, 1)
	go func() {
		c, err := l.Accept()
		accepted <- acceptResult{c, err}
	}()

	writer, err := winio.DialPipeContext(ctx, name)
	if err != nil {
		l.Close()
		return nil, errors.Wrap(err, "DialPipe")
	}

	res := <-accepted
	if res.err != nil {
		writer.Close()
		l.Close()
		return nil, errors.Wrap(res.err, "Accept")
	}

	return &winPipe{listener: l, writer: writer, reader: res.conn}, nil
}

func (p *winPipe) Send(pkt packet) error {
	_, err := p.writer.Write(encodePacket(pkt))
	return err
}

func (p *winPipe) Recv() (packet, error) {
	buf := make([]byte, packetWireSize)
	if _, err := io.ReadFull(p.reader, buf); err != nil {
		return packet{}, err
	}
	return decodePacket(buf), nil
}

func (p *winPipe) Close() error {
	p.writer.Close()
	p.reader.Close()
	return p.listener.Close()
}

func newPlatformPipe(ctx context.Context) (Pipe, error) {
	return newWinPipe(ctx)
}
