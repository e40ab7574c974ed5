package main

import "regexp"

// priceRegex is carried over from the original watcher. It tolerates the
// POR:/Valor: markers, the money emoji or a leading dash before the R$
// sigil, and captures the raw number with either separator. Repeated
// separators ("1.2.3,45") are accepted; the capture is display text and is
// never parsed into a number.
var priceRegex = regexp.MustCompile(`(?i)(?:(?:POR:|Valor:|💰|-)?\s*R\$\s*|(?:POR:|Valor:)\s*)(\d+(?:[.,]\d+)*)`)

// ExtractPrice returns the first currency-formatted price in text.
func ExtractPrice(text string) (string, bool) {
	m := priceRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
