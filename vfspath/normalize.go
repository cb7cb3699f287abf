// Package vfspath implements the guest path normaliser (spec.md §4.1,
// Component A). It is pure string manipulation: no filesystem access, no
// symlink awareness (that belongs to vfs.resolve).
package vfspath

import "strings"

// Normalize implements the Component A contract:
//
//	normalize(base: abs-path, input: path) -> abs-path
//
// If input is absolute (starts with '/') the base is ignored. Aliasing of
// base and the eventual result is safe: base is read in full before any
// byte of it is reused, since normalization is done via a fresh builder.
func Normalize(base, input string) string {
	var out strings.Builder

	if strings.HasPrefix(input, "/") {
		out.WriteByte('/')
	} else {
		if !strings.HasPrefix(base, "/") {
			out.WriteByte('/')
		}
		out.WriteString(base)
		if out.Len() == 0 || out.String()[out.Len()-1] != '/' {
			out.WriteByte('/')
		}
	}

	result := out.String()
	appendComponents(&result, input)
	return stripTrailingSlash(result)
}

// appendComponents consumes input component-by-component, mutating result
// in place per the algorithm in spec.md §4.1.
func appendComponents(result *string, input string) {
	rest := input
	for len(rest) > 0 {
		// Skip any leading slashes (consecutive '/' collapse).
		for len(rest) > 0 && rest[0] == '/' {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}

		// Extract next component up to (and including) its trailing slash.
		slash := strings.IndexByte(rest, '/')
		var comp, withSlash string
		if slash < 0 {
			comp = rest
			withSlash = rest
			rest = ""
		} else {
			comp = rest[:slash]
			withSlash = rest[:slash+1]
			rest = rest[slash+1:]
		}

		switch {
		case comp == ".":
			if withSlash == comp {
				// "." at the very end: preserved literally (O_NOFOLLOW on a
				// trailing dot of a symlink directory needs to see it).
				appendLiteral(result, ".")
			}
			// else "./" mid-path: skip.
		case comp == "..":
			popComponent(result)
		default:
			appendLiteral(result, withSlash)
		}
	}
}

// appendLiteral appends s to *result, ensuring exactly one '/' separates it
// from the existing content.
func appendLiteral(result *string, s string) {
	if !strings.HasSuffix(*result, "/") {
		*result += "/"
	}
	*result += s
}

// popComponent removes the last path component from *result, never popping
// past the leading '/' (root clamps ".." instead of underflowing).
func popComponent(result *string) {
	s := *result
	s = strings.TrimSuffix(s, "/")
	idx := strings.LastIndexByte(s, '/')
	if idx < 0 {
		*result = "/"
		return
	}
	*result = s[:idx+1]
}

func stripTrailingSlash(s string) string {
	if s == "/" {
		return s
	}
	return strings.TrimSuffix(s, "/")
}
