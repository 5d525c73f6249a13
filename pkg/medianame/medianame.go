// Package medianame infers catalog metadata from raw media filenames.
//
// Everything in this package is pure: no I/O, no global state. Filenames
// come from uncurated collections, so parsing is layered. Structured
// patterns are always preferred, and positional guesses are only made when
// the caller supplies a season context.
package medianame

import (
	"path"
	"regexp"
	"strings"
)

// Kind is the coarse classification of a remote file.
type Kind int

const (
	KindOther Kind = iota
	KindVideo
	KindSubtitle
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	default:
		return "other"
	}
}

var videoMimeTypes = map[string]bool{
	"video/mp4":        true,
	"video/x-matroska": true,
	"video/avi":        true,
	"video/x-msvideo":  true,
	"video/quicktime":  true,
	"video/x-ms-wmv":   true,
	"video/x-flv":      true,
	"video/webm":       true,
	"video/x-m4v":      true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
}

var subtitleExtensions = map[string]bool{
	".srt": true,
	".vtt": true,
}

// Classify reports whether a file is a video, a subtitle, or neither.
// The MIME type is checked first; remote stores do not always fill it in,
// so the extension is consulted when the MIME type is empty or unknown.
func Classify(name, mimeType string) Kind {
	if IsVideo(name, mimeType) {
		return KindVideo
	}
	if IsSubtitle(name) {
		return KindSubtitle
	}
	return KindOther
}

// IsVideo reports whether the MIME type or, failing that, the extension
// names a known video container.
func IsVideo(name, mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if videoMimeTypes[mt] {
		return true
	}
	return videoExtensions[Ext(name)]
}

// IsSubtitle reports whether name carries a subtitle extension.
func IsSubtitle(name string) bool {
	return subtitleExtensions[Ext(name)]
}

// Ext returns the lowercased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

var extensionRegex = regexp.MustCompile(`\.[^/.]+$`)

// StripExtension removes the final extension from name, if any.
func StripExtension(name string) string {
	return extensionRegex.ReplaceAllString(name, "")
}
