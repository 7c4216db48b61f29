package sink

import "unicode/utf8"

// Tooltip shortens text to what fits into a tray tooltip.
func Tooltip(text string) string {
	const limit = 120
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
