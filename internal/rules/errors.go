package rules

import (
	"fmt"
	"strings"
)

// RuleError represents a single constraint violation in a rules file.
type RuleError struct {
	Index   int      // Zero-based position of the rule in the file
	Field   string   // The offending field (e.g. "browser")
	Value   string   // The invalid value
	Message string   // Human-readable constraint description
	Allowed []string // For closed-set violations, the allowed identifiers
}

// ValidationError aggregates every RuleError found in a rules file.
// Parsing collects all violations rather than stopping at the first one.
type ValidationError struct {
	Errors []RuleError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rules file invalid: %d error(s)", len(e.Errors))
}

// FormatError formats a RuleError into a human-readable message.
func FormatError(err RuleError) string {
	if len(err.Allowed) > 0 {
		// Format: "rule {n}: {field}: '{value}' is not valid, must be one of: {allowed}"
		return fmt.Sprintf("rule %d: %s: '%s' is not valid, must be one of: %s",
			err.Index, err.Field, err.Value, strings.Join(err.Allowed, ", "))
	}
	// Format: "rule {n}: {field}: {message}"
	return fmt.Sprintf("rule %d: %s: %s", err.Index, err.Field, err.Message)
}

// FormatErrors formats all rule errors into a slice of human-readable messages.
func FormatErrors(errs []RuleError) []string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = FormatError(err)
	}
	return messages
}
