// +build windows

package local

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// fileTimes reads the raw creation/access/write FILETIMEs for path without
// going through os.Stat (which only surfaces ModTime), the way a real
// fstatat needs atime/mtime/ctime all at once.
func fileTimes(path string) (mtime, atime, ctime time.Time, err error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	var data windows.Win32FileAttributeData
	if err := windows.GetFileAttributesEx(p, windows.GetFileExInfoStandard, (*byte)(unsafe.Pointer(&data))); err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	mtime = time.Unix(0, data.LastWriteTime.Nanoseconds())
	atime = time.Unix(0, data.LastAccessTime.Nanoseconds())
	ctime = time.Unix(0, data.CreationTime.Nanoseconds())
	return mtime, atime, ctime, nil
}
