package chart

// Axis labels longer than MaxLabelLength are cut to truncatedPrefix characters plus an ellipsis.
const (
	MaxLabelLength  = 15
	truncatedPrefix = 12
	ellipsis        = "..."
)

// Truncate shortens a category label for axis display.
func Truncate(label string) string {
	return TruncateTo(label, MaxLabelLength)
}

// TruncateTo shortens label when it has more than maxLength characters.
// Lengths are counted in runes so multi-byte names are never split mid-character.
// The kept prefix is 12 runes, clamped so the result never exceeds maxLength;
// below 4 only part of the ellipsis fits.
func TruncateTo(label string, maxLength int) string {
	runes := []rune(label)
	if len(runes) <= maxLength {
		return label
	}
	if maxLength <= len(ellipsis) {
		return ellipsis[:max(maxLength, 0)]
	}
	keep := min(truncatedPrefix, maxLength-len(ellipsis))
	return string(runes[:keep]) + ellipsis
}
