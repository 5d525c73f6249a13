// Package subtitle normalizes subtitle files to UTF-8 WebVTT.
package subtitle

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Charset is the encoding a subtitle file was decoded from.
type Charset string

const (
	UTF8        Charset = "utf-8"
	Windows1250 Charset = "windows-1250"
)

// MaxSize caps the subtitle payload read into memory.
const MaxSize = 10 << 20

// Decode decodes raw as UTF-8, stripping a byte order mark. If that
// produces replacement characters the bytes are decoded as Windows-1250,
// the usual encoding of Central European SRT files.
func Decode(raw []byte) (string, Charset) {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err == nil && !strings.ContainsRune(string(text), '�') {
		return string(text), UTF8
	}
	legacy, err := charmap.Windows1250.NewDecoder().Bytes(raw)
	if err != nil {
		return string(text), UTF8
	}
	return string(legacy), Windows1250
}

var srtTimestampComma = regexp.MustCompile(`,(\d{3})`)

// ToWebVTT converts SRT text to WebVTT by switching the millisecond
// separator to a dot and adding the header.
func ToWebVTT(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = srtTimestampComma.ReplaceAllString(text, ".$1")
	if strings.HasPrefix(text, "WEBVTT") {
		return text
	}
	return "WEBVTT\n\n" + text
}

// Convert decodes raw and converts it to WebVTT.
func Convert(raw []byte) (string, Charset) {
	text, cs := Decode(raw)
	return ToWebVTT(text), cs
}
