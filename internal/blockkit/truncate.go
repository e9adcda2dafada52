package blockkit

// MaxSectionLength is the per-block character budget Slack enforces on
// section text.
const MaxSectionLength = 3000

const (
	ellipsis = "..."
	// How far back from the cut point to look for a whitespace boundary
	// before giving up and severing the word.
	boundaryWindow = 50
)

// Truncate enforces max on text. Input at or under the budget is returned
// unchanged. Otherwise the text is cut at or before max-3, preferring the
// last whitespace boundary within the final 50 characters so words are not
// severed, and a literal "..." is appended. The result minus its ellipsis is
// always a prefix of the input, and the operation is idempotent.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	if max <= len(ellipsis) {
		return text[:max]
	}

	cut := max - len(ellipsis)
	floor := cut - boundaryWindow
	if floor < 0 {
		floor = 0
	}
	for i := cut; i > floor; i-- {
		if isSpace(text[i-1]) {
			cut = i - 1
			break
		}
	}
	return text[:cut] + ellipsis
}

// TruncateDefault applies Truncate with the platform section budget.
func TruncateDefault(text string) string {
	return Truncate(text, MaxSectionLength)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
