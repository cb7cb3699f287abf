package vfs

import "github.com/flinuxgo/core/corepkg"

// LinuxStat64 is the wire layout for the 64-bit stat/stat64/newstat
// family. Every narrowed field is checked for overflow before truncation
// (spec.md §6); ToLinuxStat64 returns EOVERFLOW rather than silently
// truncating.
type LinuxStat64 struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    uint32
	UID     uint32
	GID     uint32
	_       int32 // padding
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atime   int64
	Mtime   int64
	Ctime   int64
}

// ToLinuxStat64 converts a filesystem-neutral StatResult into the wire
// struct, returning EOVERFLOW if any narrowed field would truncate.
func ToLinuxStat64(s StatResult) (LinuxStat64, error) {
	if s.Uid > 0xffffffff || s.Gid > 0xffffffff {
		return LinuxStat64{}, corepkg.New(corepkg.KindOverflow)
	}
	return LinuxStat64{
		Dev:     s.Dev,
		Ino:     s.Ino,
		Nlink:   s.Nlink,
		Mode:    s.Mode,
		UID:     s.Uid,
		GID:     s.Gid,
		Rdev:    s.Rdev,
		Size:    s.Size,
		Blksize: s.Blksize,
		Blocks:  s.Blocks,
		Atime:   s.Atime.Unix(),
		Mtime:   s.Mtime.Unix(),
		Ctime:   s.Ctime.Unix(),
	}, nil
}

// LinuxStat32 is the legacy 32-bit `stat`/`newstat` layout: every field
// narrower than the neutral StatResult must be checked for overflow.
type LinuxStat32 struct {
	Dev     uint32
	Ino     uint32
	Mode    uint16
	Nlink   uint16
	UID     uint16
	GID     uint16
	Rdev    uint32
	Size    int32
	Blksize int32
	Blocks  int32
	Atime   int32
	Mtime   int32
	Ctime   int32
}

// ToLinuxStat32 narrows a StatResult into the 32-bit wire struct, failing
// with EOVERFLOW on any field that would truncate (spec.md §6).
func ToLinuxStat32(s StatResult) (LinuxStat32, error) {
	if s.Dev > 0xffffffff || s.Ino > 0xffffffff || s.Rdev > 0xffffffff {
		return LinuxStat32{}, corepkg.New(corepkg.KindOverflow)
	}
	if s.Mode > 0xffff || s.Nlink > 0xffff || s.Uid > 0xffff || s.Gid > 0xffff {
		return LinuxStat32{}, corepkg.New(corepkg.KindOverflow)
	}
	if !fitsInt32(s.Size) || !fitsInt32(s.Blksize) || !fitsInt32(s.Blocks) {
		return LinuxStat32{}, corepkg.New(corepkg.KindOverflow)
	}
	if !fitsInt32(s.Atime.Unix()) || !fitsInt32(s.Mtime.Unix()) || !fitsInt32(s.Ctime.Unix()) {
		return LinuxStat32{}, corepkg.New(corepkg.KindOverflow)
	}
	return LinuxStat32{
		Dev:     uint32(s.Dev),
		Ino:     uint32(s.Ino),
		Mode:    uint16(s.Mode),
		Nlink:   uint16(s.Nlink),
		UID:     uint16(s.Uid),
		GID:     uint16(s.Gid),
		Rdev:    uint32(s.Rdev),
		Size:    int32(s.Size),
		Blksize: int32(s.Blksize),
		Blocks:  int32(s.Blocks),
		Atime:   int32(s.Atime.Unix()),
		Mtime:   int32(s.Mtime.Unix()),
		Ctime:   int32(s.Ctime.Unix()),
	}, nil
}

func fitsInt32(v int64) bool {
	return v >= -(1<<31) && v < (1<<31)
}

// LinuxStatfs64 is the wire layout for statfs/statfs64 (spec.md §6).
type LinuxStatfs64 struct {
	Type       int64
	BlockSize  int64
	Blocks     uint64
	BlocksFree uint64
	BlocksAvai uint64
	Files      uint64
	FilesFree  uint64
	NameLen    int64
}

// ToLinuxStatfs64 converts the neutral StatfsResult into the wire struct.
// Statfs values are already 64-bit in the neutral form, so there's no
// narrowing to check here (unlike stat/stat64, spec.md §6 only calls out
// overflow checks for the fields that actually narrow).
func ToLinuxStatfs64(s StatfsResult) LinuxStatfs64 {
	return LinuxStatfs64{
		Type:       0x01021994, // TMPFS-style magic; concrete FS may override
		BlockSize:  s.BlockSize,
		Blocks:     s.Blocks,
		BlocksFree: s.BlocksFree,
		BlocksAvai: s.BlocksFree,
		Files:      s.Files,
		FilesFree:  s.FilesFree,
		NameLen:    s.NameMax,
	}
}
