// Package corepkg holds types shared across the VFS and signal packages:
// the errno taxonomy and the siginfo-ish value types that cross package
// boundaries without creating an import cycle between vfs and signal.
package corepkg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the error taxonomy from the specification's error-handling design.
type Kind int

// Error kinds. Each maps to exactly one negated-errno value at the syscall
// boundary (see Errno.Negated).
const (
	KindBadFd Kind = iota
	KindBadAddress
	KindNoEntry
	KindLoop
	KindOverflow
	KindNotSupported
	KindInvalidArgument
	KindTooManyOpenFiles
	KindNoPermission
	KindInterrupted
	KindNoSearchProcess
	KindExists
	KindNotDirectory
	KindIsDirectory
	KindNotEmpty
	KindSpipe
	KindNoTTY
	KindNoSpace
)

var kindNames = map[Kind]string{
	KindBadFd:            "bad file descriptor",
	KindBadAddress:       "bad address",
	KindNoEntry:          "no such file or directory",
	KindLoop:             "too many levels of symbolic links",
	KindOverflow:         "value too large",
	KindNotSupported:     "operation not supported",
	KindInvalidArgument:  "invalid argument",
	KindTooManyOpenFiles: "too many open files",
	KindNoPermission:     "permission denied",
	KindInterrupted:      "interrupted system call",
	KindNoSearchProcess:  "no such process",
	KindExists:           "file exists",
	KindNotDirectory:     "not a directory",
	KindIsDirectory:      "is a directory",
	KindNotEmpty:         "directory not empty",
	KindSpipe:            "illegal seek",
	KindNoTTY:            "inappropriate ioctl for device",
	KindNoSpace:          "no space left on device",
}

// negatedErrno is the Linux errno magnitude for each Kind, used to build the
// negative-return-value convention at the syscall boundary (spec.md §7).
var negatedErrno = map[Kind]int{
	KindBadFd:            9,  // EBADF
	KindBadAddress:       14, // EFAULT
	KindNoEntry:          2,  // ENOENT
	KindLoop:             40, // ELOOP
	KindOverflow:         75, // EOVERFLOW
	KindNotSupported:     95, // EOPNOTSUPP
	KindInvalidArgument:  22, // EINVAL
	KindTooManyOpenFiles: 24, // EMFILE
	KindNoPermission:     13, // EACCES
	KindInterrupted:      4,  // EINTR
	KindNoSearchProcess:  3,  // ESRCH
	KindExists:           17, // EEXIST
	KindNotDirectory:     20, // ENOTDIR
	KindIsDirectory:      21, // EISDIR
	KindNotEmpty:         39, // ENOTEMPTY
	KindSpipe:            29, // ESPIPE
	KindNoTTY:            25, // ENOTTY
	KindNoSpace:          28, // ENOSPC
}

// Errno is a core error: a Kind plus an optional wrapped cause.
type Errno struct {
	Kind  Kind
	cause error
}

// New builds an Errno with no wrapped cause.
func New(k Kind) *Errno { return &Errno{Kind: k} }

// Wrap builds an Errno wrapping cause with errors.Wrap-style context.
func Wrap(k Kind, cause error, msg string) *Errno {
	return &Errno{Kind: k, cause: errors.Wrap(cause, msg)}
}

func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", kindNames[e.Kind], e.cause)
	}
	return kindNames[e.Kind]
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Errno) Unwrap() error { return e.cause }

// Negated returns the syscall-boundary return value: a negative errno.
func (e *Errno) Negated() int {
	n, ok := negatedErrno[e.Kind]
	if !ok {
		return -22 // EINVAL as a fallback, should never happen for a known Kind
	}
	return -n
}

// Is reports whether err is an *Errno of Kind k, looking through any
// pkg/errors wrapping via errors.As.
func Is(err error, k Kind) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
