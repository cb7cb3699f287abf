// Package devfs implements the synthetic device filesystem (SPEC_FULL.md
// §4's "Synthetic device filesystem"): a small fixed set of device nodes —
// /dev/null, /dev/zero, /dev/full, /dev/random, /dev/urandom — each backed
// by a Go-native generator rather than a host file.
package devfs

import (
	"context"
	"strings"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfs"
)

// deviceKind selects which generator a devFile instance reads/writes
// against; device nodes have no host-backed storage, so a single type
// covers every entry in the device table.
type deviceKind int

const (
	kindNull deviceKind = iota
	kindZero
	kindFull
	kindRandom
)

var deviceTable = map[string]struct {
	kind  deviceKind
	major uint32
	minor uint32
}{
	"null":    {kindNull, 1, 3},
	"zero":    {kindZero, 1, 5},
	"full":    {kindFull, 1, 7},
	"random":  {kindRandom, 1, 8},
	"urandom": {kindRandom, 1, 9},
}

// New builds the devfs vfs.FileSystem. Every subpath is looked up in
// deviceTable directly; devfs has no subdirectories.
func New() *vfs.FileSystem {
	return &vfs.FileSystem{
		Name: "devfs",
		Open: func(ctx context.Context, subpath string, flags int, mode uint32) (vfs.OpenResult, error) {
			name := strings.TrimPrefix(subpath, "/")
			dev, ok := deviceTable[name]
			if !ok {
				return vfs.OpenResult{}, corepkg.New(corepkg.KindNoEntry)
			}
			return vfs.OpenResult{File: &devFile{
				kind:  dev.kind,
				major: dev.major,
				minor: dev.minor,
				flags: flags,
			}}, nil
		},
	}
}
