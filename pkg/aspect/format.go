package aspect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest aspect name accepted, in runes.
const MaxNameLength = 20

const namePunct = ".'-"

// FormatName normalises an aspect name: words are lowercased, stripped of
// anything but letters, digits and .'- , have punctuation runs squeezed,
// are capitalised and joined by single spaces. The result is at most
// MaxNameLength runes. FormatName(FormatName(x)) == FormatName(x).
func FormatName(s string) string {
	return truncateName(formatWords(s), MaxNameLength)
}

// FormatUserName applies the aspect name rules without the length cap.
func FormatUserName(s string) string {
	return formatWords(s)
}

func formatWords(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if clean := cleanWord(w); clean != "" {
			out = append(out, clean)
		}
	}
	return strings.Join(out, " ")
}

func cleanWord(w string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.ToLower(w) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case strings.ContainsRune(namePunct, r):
			if strings.ContainsRune(namePunct, prev) {
				continue
			}
		default:
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	clean := strings.Trim(b.String(), namePunct)
	if clean == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(clean)
	return string(unicode.ToUpper(first)) + clean[size:]
}

func truncateName(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)[:max]
	return strings.TrimRight(string(r), " "+namePunct)
}
