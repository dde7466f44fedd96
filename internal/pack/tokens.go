package pack

import "unicode/utf8"

// EstimateTokens approximates the LLM token cost of text as one token per
// four characters. The estimate is deliberately crude but deterministic;
// the same formula is quoted in the pack header so readers can audit the
// budget arithmetic.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
