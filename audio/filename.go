// Package audio validates uploaded audio files and normalizes them to WAV.
package audio

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Extension returns the lowercased extension after the last dot when it is
// one of allowed. Names without a dot never match.
func Extension(filename string, allowed []string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, a := range allowed {
		if ext == a {
			return ext, true
		}
	}
	return "", false
}

// SecureFilename reduces a client supplied name to ASCII letters, digits,
// '_', '.' and '-', dropping any directory components.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	s := b.String()
	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	return strings.Trim(s, "._")
}

// StoredName builds a collision free name for an upload: a ULID, the
// sanitized stem and the already validated extension.
func StoredName(original, ext string) string {
	id := ulid.Make().String()
	stem := original
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	stem = SecureFilename(stem)
	if stem == "" {
		return id + "." + ext
	}
	return id + "_" + stem + "." + ext
}

func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// WAVPath names a fresh sibling of path for the converted copy. The ULID
// suffix keeps it from ever landing on an existing file.
func WAVPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ulid.Make().String() + ".wav"
}
