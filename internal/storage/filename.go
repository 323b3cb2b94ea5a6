package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var filenameStripRE = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces an untrusted client filename to a flat ASCII name
// that is safe to join onto the volume path. Path separators become
// underscores, anything outside [A-Za-z0-9_.-] is dropped, and leading or
// trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			continue
		}
		if r == '/' || r == '\\' {
			r = ' '
		}
		b.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(b.String()), "_")
	return strings.Trim(filenameStripRE.ReplaceAllString(joined, ""), "._")
}

// AllowedFile reports whether name has an extension in allowed. The
// comparison ignores case; allowed entries carry no leading dot.
func AllowedFile(name string, allowed []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
