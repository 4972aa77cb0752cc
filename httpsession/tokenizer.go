package httpsession

import "strings"

// SplitValues splits txt on any character of sep. A span opened by a
// character of openQuotes runs to the character at the same position in
// closeQuotes; separators inside a span are not recognised and a backslash
// inside a span escapes the following character. An unterminated span runs
// to the end of txt. The final segment is always returned, so N separators
// yield N+1 segments.
func SplitValues(txt, sep, openQuotes, closeQuotes string) []string {
	var result []string
	begin := 0
	cursor := 0
	for cursor < len(txt) {
		c := txt[cursor]
		if q := strings.IndexByte(openQuotes, c); q >= 0 && q < len(closeQuotes) {
			closing := closeQuotes[q]
			cursor++
			for cursor < len(txt) && txt[cursor] != closing {
				if txt[cursor] == '\\' {
					cursor++
				}
				cursor++
			}
			if cursor < len(txt) {
				cursor++
			}
			continue
		}
		if strings.IndexByte(sep, c) >= 0 {
			result = append(result, txt[begin:cursor])
			cursor++
			begin = cursor
			continue
		}
		cursor++
	}
	return append(result, txt[begin:])
}

// SplitHeaderValues splits a header value on sep, protecting double-quoted
// strings and angle-bracketed URIs.
func SplitHeaderValues(txt, sep string) []string {
	return SplitValues(txt, sep, `"<`, `">`)
}
