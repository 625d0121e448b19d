package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user input that is interpolated into
// outbound HTML-mode messages (the contact relay). Stored comment rows are
// kept verbatim and are never passed through here.
func SanitizeText(input string) string {
	return sanitizer.Sanitize(input)
}
