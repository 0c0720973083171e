// Package security holds input sanitising helpers.
package security

import "strings"

// MaxSlideIDLen caps the length of a derived slide id.
const MaxSlideIDLen = 128

// SlideID derives an identifier that is safe as a file name and store key.
// ASCII letters, digits, dots, dashes and underscores are kept; runs of any
// other characters collapse to one underscore. Leading and trailing dots and
// underscores are dropped. Names with nothing usable map to "unknown".
func SlideID(name string) string {
	id := make([]byte, 0, min(len(name), MaxSlideIDLen))
	for _, r := range name {
		if len(id) >= MaxSlideIDLen {
			break
		}
		if keepRune(r) {
			id = append(id, byte(r))
			continue
		}
		if n := len(id); n == 0 || id[n-1] != '_' {
			id = append(id, '_')
		}
	}
	if s := strings.Trim(string(id), "._"); s != "" {
		return s
	}
	return "unknown"
}

func keepRune(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	return r == '.' || r == '-' || r == '_'
}
