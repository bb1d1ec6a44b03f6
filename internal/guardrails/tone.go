// Package guardrails enforces the hard gates applied to recommendation
// output: tone, consent and the standard disclaimer. Guardrails suppress
// output; they never rewrite it.
package guardrails

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrToneViolation marks text rejected by the tone check. The violation is
// scoped to the single rationale that produced it.
var ErrToneViolation = errors.New("tone guardrail violation")

// Disclaimer is attached to every non-empty recommendation response.
const Disclaimer = "This content is for educational purposes only and does not constitute " +
	"financial advice. Please consult with a qualified financial professional " +
	"before making financial decisions."

// Fixed shame/blame vocabulary. Any match is a hard failure for the whole
// text; there is no partial redaction.
var shamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\byou'?re\s+overspending\b`),
	regexp.MustCompile(`\bbad\s+financial\s+habits?\b`),
	regexp.MustCompile(`\birresponsible\b`),
	regexp.MustCompile(`\bcareless\b`),
	regexp.MustCompile(`\bwasting\s+money\b`),
	regexp.MustCompile(`\bpoor\s+choices?\b`),
	regexp.MustCompile(`\bfinancial\s+mistakes?\b`),
	regexp.MustCompile(`\bbad\s+decisions?\b`),
	regexp.MustCompile(`\bfoolish\b`),
	regexp.MustCompile(`\bstupid\b`),
	regexp.MustCompile(`\breckless\b`),
}

// CheckTone reports whether text is free of shaming or judgmental language,
// returning the matched fragments when it is not.
func CheckTone(text string) (bool, []string) {
	if text == "" {
		return true, nil
	}
	lower := strings.ToLower(text)
	var violations []string
	for _, p := range shamePatterns {
		violations = append(violations, p.FindAllString(lower, -1)...)
	}
	if len(violations) > 0 {
		return false, violations
	}
	return true, nil
}

// ValidateTone returns ErrToneViolation when text fails the tone check.
func ValidateTone(text string) error {
	ok, violations := CheckTone(text)
	if !ok {
		return fmt.Errorf("%w: %s", ErrToneViolation, strings.Join(violations, ", "))
	}
	return nil
}
