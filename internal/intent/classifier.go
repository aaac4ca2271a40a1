package intent

import (
	"regexp"
	"strings"
)

// orderIDPattern matches an order ID token: the letter O followed by four
// digits, case-insensitive. No word boundary — "myO1001x" still matches.
var orderIDPattern = regexp.MustCompile(`(?i)O\d{4}`)

// ExtractOrderID returns the first order-ID token in text, if any.
func ExtractOrderID(text string) (string, bool) {
	m := orderIDPattern.FindString(text)
	return m, m != ""
}

// Classify maps text to an Intent. An order-ID mention always wins,
// regardless of any other keywords present. Otherwise the ordered keyword
// table is scanned and the first substring hit decides. No match means
// Fallback.
func Classify(text string) Intent {
	if _, ok := ExtractOrderID(text); ok {
		return OrderStatus
	}

	low := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(low, kw) {
				return r.intent
			}
		}
	}
	return Fallback
}
