// Package alerts turns raw failures from the authoritative data layer into
// presentation-safe messages with a severity for the caller.
package alerts

import (
	"regexp"
	"strings"
)

// FallbackMessage is returned when a raw failure carries no recognized tag.
// Raw technical detail must never reach the end user.
const FallbackMessage = "Ocurrió un error inesperado, intente de nuevo más tarde"

// The authoritative layer signals failures as free text prefixed by one of a
// small set of tags. The driver wraps them (SQLSTATE prefix, error codes), so
// the tag is extracted from anywhere in the string, longest prefix first.
var tagPattern = regexp.MustCompile(`(?i)(ERROR DE|CONFLICTO|ACCI[OÓ]N DENEGADA|BLOQUEO|ERROR)\b.*`)

// Parse extracts the tagged portion of a raw failure message and strips
// trailing punctuation and whitespace. Unrecognized input yields
// FallbackMessage.
func Parse(raw string) string {
	match := tagPattern.FindString(raw)
	if match == "" {
		return FallbackMessage
	}
	return strings.TrimRight(match, " \t.;:,")
}
