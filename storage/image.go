package storage

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded product images and returns the name under
// which the file was stored.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// AllowedImage reports whether filename ends in an accepted image extension.
// Only the suffix after the last dot is checked, case-insensitively.
func AllowedImage(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SecureFilename reduces an uploaded file name to a safe basename: path
// components are dropped, whitespace becomes underscores and any other
// character outside [A-Za-z0-9_.-] is removed. It returns "" when nothing
// usable is left.
func SecureFilename(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = strings.Trim(filename, "._")
	if filename == "" || filename == "." || filename == ".." {
		return ""
	}
	return filename
}

// storedName prefixes the sanitized name with a random id so two uploads of
// "photo.png" never share a file. It returns "" when SecureFilename does.
func storedName(filename string) string {
	name := SecureFilename(filename)
	if name == "" {
		return ""
	}
	return uuid.NewString() + "_" + name
}
