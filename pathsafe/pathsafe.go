// Package pathsafe derives filesystem-safe output paths from
// untrusted attachment filenames.
package pathsafe

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var reserved = regexp.MustCompile(`[/\\|\[\]{}:<>+=;,?!*"~#$%&@']`)

// Sanitize replaces every reserved character in name with an
// underscore. All other characters, including leading dots, are left
// untouched. Sanitize of an empty string is the empty string; callers
// must supply their own fallback name.
func Sanitize(name string) string {
	return reserved.ReplaceAllString(name, "_")
}

const (
	suffixLen = 5
	alphanum  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// UniquePath returns path unchanged if nothing exists there.
// Otherwise it retries stem_<5 random alphanumerics><ext>, with the
// stem fixed to the original, until it finds an unoccupied path.
func UniquePath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for exists(path) {
		path = stem + "_" + randomSuffix() + ext
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func randomSuffix() string {
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = alphanum[rand.Intn(len(alphanum))]
	}
	return string(b)
}
