// +build windows

package local

import "strings"

// isCircularSymlinkError reports whether err is Windows' own complaint
// about an unresolvable reparse-point cycle. The resolver's own depth
// counter (spec.md §4.3) catches guest-visible symlink loops; this catches
// the case where a single host CreateFile call walks a cycle of *host*
// reparse points before the resolver ever sees a second hop.
func isCircularSymlinkError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "The name of the file cannot be resolved by the system")
}
