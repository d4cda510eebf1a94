package alerts

import "strings"

// Severity tells the caller how to present a parsed failure.
type Severity string

const (
	// SeverityWarning marks recoverable outcomes: the user has a corrective
	// action (recover a password, retry after a transient conflict).
	SeverityWarning Severity = "warning"
	// SeverityDanger marks outcomes that need admin intervention or signal a
	// hard policy block or an unexpected error.
	SeverityDanger Severity = "danger"
)

// Classify maps a parsed message to a severity. It is a pure function of the
// message text so it can be tested without the data layer.
func Classify(message string) Severity {
	upper := strings.ToUpper(message)

	switch {
	case strings.Contains(upper, "409-A"):
		return SeverityWarning
	case strings.Contains(upper, "409-B"):
		return SeverityDanger
	case strings.Contains(upper, "BLOQUEO"), strings.Contains(upper, "DENEGADA"):
		return SeverityDanger
	case strings.Contains(upper, "CONFLICTO OPERATIVO"),
		strings.Contains(upper, "CONCURRENCIA"),
		strings.Contains(upper, "409"):
		return SeverityWarning
	default:
		return SeverityDanger
	}
}
