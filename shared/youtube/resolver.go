package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned by callers of ExtractVideoID when the
// input yields no video ID. Resolution failure is terminal for a run.
var ErrInvalidReference = errors.New("could not extract a valid YouTube video ID")

// shortLinkPatterns capture the 11-character video ID from youtu.be and
// shorts URLs. Checked before full URL parsing so query strings and
// fragments around the ID don't matter.
var shortLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID normalizes a YouTube URL or bare video ID into the
// 11-character video ID. Supported inputs:
//
//   - youtube.com/watch?v=VIDEO_ID
//   - youtu.be/VIDEO_ID
//   - youtube.com/shorts/VIDEO_ID
//   - VIDEO_ID passed directly
//
// For watch URLs the first "v" query value is trusted as-is, without
// re-validating its length. Returns "" when no ID can be extracted. Never
// panics on malformed input.
func ExtractVideoID(input string) string {
	for _, pattern := range shortLinkPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}

	if parsed, err := url.Parse(input); err == nil {
		if strings.Contains(parsed.Host, "youtube.com") {
			if v := parsed.Query().Get("v"); v != "" {
				return v
			}
		}
	}

	if videoIDPattern.MatchString(input) {
		return input
	}

	return ""
}
