package vfs

import (
	"encoding/binary"
)

// Linux dirent file-type bytes (d_type), used both in linux_dirent's
// trailing byte and linux_dirent64's d_type field.
const (
	DTUnknown = 0
	DTFifo    = 1
	DTChr     = 2
	DTDir     = 4
	DTBlk     = 6
	DTReg     = 8
	DTLnk     = 10
	DTSock    = 12
)

// EncodeLinuxDirent64 packs entries into the linux_dirent64 wire format
// (spec.md §6): d_ino(8) d_off(8) d_reclen(2) d_type(1) d_name(NUL-padded),
// d_reclen rounded up to a multiple of 8. Entries that don't fit in
// bufSize are left for a subsequent call (the number of entries encoded
// is returned as consumed).
func EncodeLinuxDirent64(entries []DirEntry, bufSize int) (buf []byte, consumed int, err error) {
	out := make([]byte, 0, bufSize)
	for i, e := range entries {
		reclen := align8(19 + len(e.Name) + 1)
		if len(out)+reclen > bufSize {
			return out, i, nil
		}
		rec := make([]byte, reclen)
		binary.LittleEndian.PutUint64(rec[0:8], e.Ino)
		binary.LittleEndian.PutUint64(rec[8:16], uint64(e.Offset))
		binary.LittleEndian.PutUint16(rec[16:18], uint16(reclen))
		rec[18] = e.Type
		copy(rec[19:], e.Name)
		out = append(out, rec...)
		consumed = i + 1
	}
	return out, consumed, nil
}

// EncodeLinuxDirent packs entries into the legacy linux_dirent wire format
// (spec.md §6), x86-64 layout: d_ino(8) d_off(8) d_reclen(2) d_name
// (NUL-padded) then, immediately after the NUL terminator, one file-type
// byte. d_reclen is rounded to a multiple of 8.
func EncodeLinuxDirent(entries []DirEntry, bufSize int) (buf []byte, consumed int, err error) {
	out := make([]byte, 0, bufSize)
	for i, e := range entries {
		// 8 (ino) + 8 (off) + 2 (reclen) + len(name) + 1 (NUL) + 1 (type)
		reclen := align8(18 + len(e.Name) + 1 + 1)
		if len(out)+reclen > bufSize {
			return out, i, nil
		}
		rec := make([]byte, reclen)
		binary.LittleEndian.PutUint64(rec[0:8], e.Ino)
		binary.LittleEndian.PutUint64(rec[8:16], uint64(e.Offset))
		binary.LittleEndian.PutUint16(rec[16:18], uint16(reclen))
		copy(rec[18:], e.Name)
		rec[18+len(e.Name)+1] = e.Type
		out = append(out, rec...)
		consumed = i + 1
	}
	return out, consumed, nil
}

func align8(n int) int {
	return (n + 7) &^ 7
}
