// +build windows

package local

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// diskFreeSpace reports the free/total byte counts for the volume hosting
// path, backing the filesystem-level Statfs capability.
func diskFreeSpace(path string) (availableToCaller, total, totalFree uint64, err error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "UTF16PtrFromString")
	}
	if err := windows.GetDiskFreeSpaceEx(p, &availableToCaller, &total, &totalFree); err != nil {
		return 0, 0, 0, errors.Wrap(err, "GetDiskFreeSpaceEx")
	}
	return availableToCaller, total, totalFree, nil
}
