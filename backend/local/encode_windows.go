// +build windows

package local

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// windowsSubstitutions maps the Windows-reserved characters to fullwidth
// lookalikes so a guest name that is perfectly legal on Linux still has a
// one-to-one host-side representation.
//
//	< (less than)     -> '＜' FULLWIDTH LESS-THAN SIGN
//	> (greater than)  -> '＞' FULLWIDTH GREATER-THAN SIGN
//	: (colon)         -> '：' FULLWIDTH COLON
//	" (double quote)  -> '＂' FULLWIDTH QUOTATION MARK
//	\ (backslash)     -> '＼' FULLWIDTH REVERSE SOLIDUS
//	| (vertical line) -> '｜' FULLWIDTH VERTICAL LINE
//	? (question mark) -> '？' FULLWIDTH QUESTION MARK
//	* (asterisk)      -> '＊' FULLWIDTH ASTERISK
//
// https://docs.microsoft.com/windows/desktop/FileIO/naming-a-file#naming-conventions
var windowsSubstitutions = map[rune]rune{
	'<':  '＜',
	'>':  '＞',
	':':  '：',
	'"':  '＂',
	'\\': '＼',
	'|':  '｜',
	'?':  '？',
	'*':  '＊',
}

var windowsReverse = func() map[rune]rune {
	m := make(map[rune]rune, len(windowsSubstitutions))
	for k, v := range windowsSubstitutions {
		m[v] = k
	}
	return m
}()

// encodeComponent rewrites one path component so it survives round-tripping
// through a Windows directory entry: reserved characters become fullwidth
// lookalikes, a trailing period or space (both illegal as the final
// character of a Windows name) is rewritten, and the result is normalised
// to NFC so the same guest string always lands on the same host bytes.
func encodeComponent(name string) string {
	if name == "" || name == "." || name == ".." {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if sub, ok := windowsSubstitutions[r]; ok {
			b.WriteRune(sub)
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	switch out[len(out)-1] {
	case '.':
		out = out[:len(out)-1] + "．" // FULLWIDTH FULL STOP
	case ' ':
		out = out[:len(out)-1] + "␠" // SYMBOL FOR SPACE
	}
	return norm.NFC.String(out)
}

// decodeComponent reverses encodeComponent for directory-listing output.
func decodeComponent(hostName string) string {
	if hostName == "" || hostName == "." || hostName == ".." {
		return hostName
	}
	var b strings.Builder
	for _, r := range hostName {
		switch r {
		case '．':
			b.WriteByte('.')
		case '␠':
			b.WriteByte(' ')
		default:
			if orig, ok := windowsReverse[r]; ok {
				b.WriteRune(orig)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
