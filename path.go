package toml

import "strings"

// splitPath splits a dotted path expression into segments. Segments
// may be bare (`a.b`), basic-quoted (`"a.b"`), or literal-quoted
// (`'a.b'`); quoting protects embedded dots.
func splitPath(path string) []string {
	var segs []string
	i := 0
	for i < len(path) {
		i = skipPathWs(path, i)
		if i >= len(path) {
			break
		}
		var seg string
		seg, i = parsePathSegment(path, i)
		segs = append(segs, seg)
		i = skipPathWs(path, i)
		if i < len(path) && path[i] == '.' {
			i++
		}
	}
	return segs
}

func skipPathWs(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func parsePathSegment(path string, i int) (string, int) {
	switch path[i] {
	case '"':
		return parsePathQuoted(path, i, '"')
	case '\'':
		return parsePathQuoted(path, i, '\'')
	default:
		start := i
		for i < len(path) && path[i] != '.' && path[i] != ' ' && path[i] != '\t' {
			i++
		}
		return path[start:i], i
	}
}

func parsePathQuoted(path string, i int, quote byte) (string, int) {
	i++ // opening quote
	start := i
	for i < len(path) {
		if quote == '"' && path[i] == '\\' && i+1 < len(path) {
			i += 2
			continue
		}
		if path[i] == quote {
			return path[start:i], i + 1
		}
		i++
	}
	// Unclosed quote: take the rest.
	return path[start:], i
}

// joinPath renders key segments as a dotted path, quoting segments
// that contain dots so `a."b.c"` and `a.b.c` stay distinct.
func joinPath(segs []string) string {
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteByte('.')
		}
		if strings.ContainsRune(seg, '.') {
			b.WriteByte('"')
			b.WriteString(seg)
			b.WriteByte('"')
		} else {
			b.WriteString(seg)
		}
	}
	return b.String()
}
