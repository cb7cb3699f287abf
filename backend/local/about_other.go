// +build !windows

package local

import "github.com/flinuxgo/core/corepkg"

func diskFreeSpace(path string) (availableToCaller, total, totalFree uint64, err error) {
	return 0, 0, 0, corepkg.New(corepkg.KindNotSupported)
}
