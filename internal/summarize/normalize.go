package summarize

// Truncate bounds text to at most max characters (Unicode code points) with a
// hard prefix cut. A non-positive max yields "".
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		// Byte length bounds the rune count.
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}
