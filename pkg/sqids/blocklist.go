package sqids

import (
	"sort"
	"strings"
)

const minBlocklistWordLength = 3

type blocklist map[string]struct{}

// newBlocklist keeps the lower-cased words that could ever show up in an ID
// built from alphabet.
func newBlocklist(words []string, alphabet string) blocklist {
	lowerAlphabet := strings.ToLower(alphabet)

	bl := make(blocklist, len(words))
	for _, word := range words {
		if len(word) < minBlocklistWordLength {
			continue
		}
		lower := strings.ToLower(word)
		if !onlyCharsOf(lower, lowerAlphabet) {
			continue
		}
		bl[lower] = struct{}{}
	}
	return bl
}

func onlyCharsOf(word, alphabet string) bool {
	for i := 0; i < len(word); i++ {
		if strings.IndexByte(alphabet, word[i]) < 0 {
			return false
		}
	}
	return true
}

// isBlocked reports whether id contains a blocklist word. IDs or words of
// up to 3 characters only match exactly; words with digits only match at
// either end of the ID.
func (bl blocklist) isBlocked(id string) bool {
	lower := strings.ToLower(id)
	for word := range bl {
		if len(word) > len(lower) {
			continue
		}
		switch {
		case len(lower) <= 3 || len(word) <= 3:
			if lower == word {
				return true
			}
		case hasDigit(word):
			if strings.HasPrefix(lower, word) || strings.HasSuffix(lower, word) {
				return true
			}
		case strings.Contains(lower, word):
			return true
		}
	}
	return false
}

func (bl blocklist) words() []string {
	out := make([]string, 0, len(bl))
	for word := range bl {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
