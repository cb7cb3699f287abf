package signal

import (
	"encoding/binary"

	"github.com/flinuxgo/core/dbt"
)

// Layout constants for the signal frame this core builds on the guest
// stack (spec.md §4.5 step 4). Sizes are fixed x86-64 word widths; the
// frame is built by explicit byte packing rather than unsafe struct
// overlay, the same approach vfs/dirent.go uses for linux_dirent64.
const (
	fpuAreaSize  = 512 // legacy FXSAVE area size
	fpuAreaAlign = 512
	redZoneSize  = 128 // x86-64 SysV red zone below rsp that must not be clobbered

	sigInfoSize = 32 // signo,errno,code,pad,pid,uid,pad,pad (4 bytes each)
	mcontextSize = 18*8 + 8 + 8 // 17 integer regs + eflags + fpu ptr + pre-delivery mask

	frameHeaderSize = 8 * 4 // pretcode, signo, info ptr, uc ptr
	ucHeaderSize    = 8 * 5 // uc_flags, uc_link, stack sp/flags/size

	infoOffset  = frameHeaderSize
	ucOffset    = infoOffset + sigInfoSize
	sigmaskOff  = ucOffset + ucHeaderSize + mcontextSize
	sigFrameSize = sigmaskOff + 8
)

// sigFrameFields is the set of values the frame builder needs; separated
// from the wire encoding so tests can assert on the logical contents
// without re-deriving byte offsets.
type sigFrameFields struct {
	Restorer uintptr
	Signo    int
	FrameAddr uint64
	Info     SigInfo
	Regs     dbt.Context
	FPUPtr   uint64
	PreMask  uint64
}

func encodeSigFrame(f sigFrameFields) []byte {
	buf := make([]byte, sigFrameSize)
	le := binary.LittleEndian

	le.PutUint64(buf[0:8], uint64(f.Restorer))
	le.PutUint64(buf[8:16], uint64(f.Signo))
	le.PutUint64(buf[16:24], f.FrameAddr+infoOffset)
	le.PutUint64(buf[24:32], f.FrameAddr+ucOffset)

	info := buf[infoOffset:]
	le.PutUint32(info[0:4], uint32(f.Signo))
	le.PutUint32(info[4:8], 0) // errno, unused
	le.PutUint32(info[8:12], uint32(f.Info.Code))
	le.PutUint32(info[16:20], uint32(f.Info.Pid))
	le.PutUint32(info[20:24], uint32(f.Info.UID))

	uc := buf[ucOffset:]
	le.PutUint64(uc[0:8], 0)  // uc_flags
	le.PutUint64(uc[8:16], 0) // uc_link: always null, no alternate signal stack
	// uc_stack left zeroed: altsigstack is out of scope.

	mc := uc[ucHeaderSize:]
	regs := []uint64{
		f.Regs.Rax, f.Regs.Rbx, f.Regs.Rcx, f.Regs.Rdx, f.Regs.Rsi, f.Regs.Rdi,
		f.Regs.Rbp, f.Regs.Rsp, f.Regs.Rip,
		f.Regs.R8, f.Regs.R9, f.Regs.R10, f.Regs.R11,
		f.Regs.R12, f.Regs.R13, f.Regs.R14, f.Regs.R15,
		f.Regs.EFlags,
	}
	for i, v := range regs {
		le.PutUint64(mc[i*8:i*8+8], v)
	}
	le.PutUint64(mc[18*8:18*8+8], f.FPUPtr)
	le.PutUint64(mc[18*8+8:18*8+16], f.PreMask)

	le.PutUint64(buf[sigmaskOff:sigmaskOff+8], f.PreMask)

	return buf
}

func alignDown(v uint64, align uint64) uint64 {
	return v &^ (align - 1)
}
