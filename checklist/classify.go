package checklist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the shortest answer considered for media or
// observation classification. Yes/no answers and short codes stay below it.
const MinContentLength = 50

var (
	reImageURL       = regexp.MustCompile(`(?i)^https?://\S+\.(jpg|jpeg|png|gif|webp|svg|heic)(\?.*)?$`)
	reVideoHost      = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/|vimeo\.com/)\S+`)
	reVideoDirectURL = regexp.MustCompile(`(?i)^https?://\S+\.(mp4|mov|avi|webm|mkv|3gp)(\?.*)?$`)
)

func tooShort(text string) bool {
	return utf8.RuneCountInString(text) < MinContentLength
}

// IsImageURL reports whether text is a link to an image file.
func IsImageURL(text string) bool {
	if text == "" || tooShort(text) {
		return false
	}
	return reImageURL.MatchString(strings.TrimSpace(text))
}

// IsVideoURL reports whether text is a link to a known video host or to a
// video file. Short share links fall under the length guard too.
func IsVideoURL(text string) bool {
	if text == "" || tooShort(text) {
		return false
	}
	text = strings.TrimSpace(text)
	return reVideoHost.MatchString(text) || reVideoDirectURL.MatchString(text)
}

// IsLongObservation reports whether text is free-form narrative: long enough
// and not a media link.
func IsLongObservation(text string) bool {
	text = strings.TrimSpace(text)
	if tooShort(text) {
		return false
	}
	return !IsImageURL(text) && !IsVideoURL(text)
}
