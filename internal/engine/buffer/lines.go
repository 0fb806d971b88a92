package buffer

import "strings"

// SplitLines splits text on any of "\r\n", "\r" or "\n".
// The result always has at least one element.
func SplitLines(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			out = append(out, text[start:i])
			start = i + 1
		case '\r':
			out = append(out, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(out, text[start:])
}

// JoinLines joins lines with sep. An empty sep means "\n".
func JoinLines(lines []string, sep string) string {
	if sep == "" {
		sep = "\n"
	}
	return strings.Join(lines, sep)
}
