package domain

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxExtensionLength = 16

// NewDiskName returns a fresh opaque blob name keeping a sanitized extension of the original file.
// The client file name never becomes part of a storage path.
func NewDiskName(extension string) string {
	return uuid.NewString() + SanitizeExtension(extension)
}

// SanitizeExtension lowercases ext and keeps it only when it is short and alphanumeric
func SanitizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > maxExtensionLength {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}

// ExtensionOf returns the extension of a client supplied file name
func ExtensionOf(originalName string) string {
	return filepath.Ext(filepath.Base(filepath.ToSlash(originalName)))
}
