// Package local implements the host-backed filesystem driver
// (SPEC_FULL.md §4's "Host-backed filesystem"): a vfs.FileSystem whose
// operations translate a guest subpath into a host path and shell out to
// the Windows filesystem.
package local

import "strings"

// encodeComponent rewrites a single guest path component into a host-safe
// one using the platform encoding table (windowsEncode on Windows, identity
// elsewhere), and decodeComponent reverses it for directory listings.
func encodePath(guestPath string) string {
	parts := strings.Split(guestPath, "/")
	for i, p := range parts {
		parts[i] = encodeComponent(p)
	}
	return strings.Join(parts, "/")
}

func decodeName(hostName string) string {
	return decodeComponent(hostName)
}
