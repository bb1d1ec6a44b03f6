package guardrails

// HasConsent resolves the tri-state consent flag. An unset value is treated
// as no consent; absence of consent suppresses all recommendation output.
func HasConsent(consent *bool) bool {
	return consent != nil && *consent
}
