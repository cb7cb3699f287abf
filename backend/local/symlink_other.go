// +build !windows

package local

func isCircularSymlinkError(err error) bool { return false }
