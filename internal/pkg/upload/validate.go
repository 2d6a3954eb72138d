// Package upload validates resource metadata before it is accepted.
package upload

import (
	"errors"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp3":  true,
	".ogg":  true,
	".mp4":  true,
	".webm": true,
	// SVG is excluded: scriptable without sanitization
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"audio/mpeg": true,
	"audio/ogg":  true,
	"video/mp4":  true,
	"video/webm": true,
}

var (
	ErrUnsupportedType = errors.New("unsupported resource type")
	ErrTypeMismatch    = errors.New("resource type does not match file name")
)

// extMime maps each allowed extension to the mime types it may carry.
var extMime = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".mp3":  {"audio/mpeg"},
	".ogg":  {"audio/ogg", "video/ogg"},
	".mp4":  {"video/mp4"},
	".webm": {"video/webm", "audio/webm"},
}

// ValidateResourceType checks the declared mime type against the
// whitelist of supported quiz media and against the file extension.
func ValidateResourceType(name string, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		return ErrUnsupportedType
	}

	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if !allowedMime[mime] && !extAllows(ext, mime) {
		return ErrUnsupportedType
	}
	if !extAllows(ext, mime) {
		return ErrTypeMismatch
	}
	return nil
}

func extAllows(ext string, mime string) bool {
	for _, allowed := range extMime[ext] {
		if allowed == mime {
			return true
		}
	}
	return false
}
