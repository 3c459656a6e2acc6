package download

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
)

// Format is a requested output format.
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatMP3 Format = "mp3"
	FormatJPG Format = "jpg"
	FormatPNG Format = "png"
)

// Kind groups formats by what the engine has to fetch.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// SupportedFormats lists every accepted format in display order.
var SupportedFormats = []Format{FormatMP4, FormatMP3, FormatJPG, FormatPNG}

// maxSuggestDistance bounds how far a typo may be from a supported format
// before we stop offering a suggestion.
const maxSuggestDistance = 2

// ParseFormat normalizes s and maps it to a supported Format.
// Unknown values return an *UnsupportedFormatError.
func ParseFormat(s string) (Format, error) {
	// Casers carry state, so each call gets its own.
	norm := cases.Fold().String(strings.TrimSpace(s))
	for _, f := range SupportedFormats {
		if norm == string(f) {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s, Suggestion: suggestFormat(norm)}
}

// Kind reports which extraction strategy family the format belongs to.
func (f Format) Kind() Kind {
	switch f {
	case FormatMP4:
		return KindVideo
	case FormatMP3:
		return KindAudio
	case FormatJPG, FormatPNG:
		return KindImage
	default:
		return ""
	}
}

// Ext returns the file extension (without dot) the final artifact carries.
func (f Format) Ext() string {
	return string(f)
}

func suggestFormat(s string) string {
	if s == "" {
		return ""
	}
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, f := range SupportedFormats {
		d := edlib.LevenshteinDistance(s, string(f))
		if d < bestDist {
			best = string(f)
			bestDist = d
		}
	}
	return best
}
