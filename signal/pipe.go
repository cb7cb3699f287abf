package signal

import (
	"context"
	"encoding/binary"
)

type packetKind uint8

const (
	packetRaise packetKind = iota
	packetReconsider
	packetShutdown
)

// packet is the fixed-size message every ingress source sends down the
// signal pipe (spec.md §4.5 step 1): self-kill, the child-death fan-in,
// and mask/sigreturn-triggered reconsideration all converge here.
type packet struct {
	kind  packetKind
	signo int32
	info  SigInfo
}

const packetWireSize = 1 + 4 + 4 + 4 + 4 // kind, signo, code, pid, uid

// Pipe is the one-way message channel ingress converges on before the
// worker goroutine dequeues and applies it under the signal mutex. The
// real implementation binds a named pipe to an IOCP (pipe_windows.go);
// non-Windows builds and unit tests use an in-process channel with the
// same blocking-Recv semantics (pipe_other.go).
type Pipe interface {
	Send(p packet) error
	Recv() (packet, error) // blocks until a packet arrives or Close runs
	Close() error
}

func encodePacket(p packet) []byte {
	buf := make([]byte, packetWireSize)
	buf[0] = byte(p.kind)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(p.signo))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(p.info.Code))
	binary.LittleEndian.PutUint32(buf[9:13], uint32(p.info.Pid))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(p.info.UID))
	return buf
}

func decodePacket(buf []byte) packet {
	return packet{
		kind:  packetKind(buf[0]),
		signo: int32(binary.LittleEndian.Uint32(buf[1:5])),
		info: SigInfo{
			Code: int32(binary.LittleEndian.Uint32(buf[5:9])),
			Pid:  int32(binary.LittleEndian.Uint32(buf[9:13])),
			UID:  int32(binary.LittleEndian.Uint32(buf[13:17])),
		},
	}
}

func newPipe(ctx context.Context) (Pipe, error) {
	return newPlatformPipe(ctx)
}
