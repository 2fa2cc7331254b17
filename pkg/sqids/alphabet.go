package sqids

import (
	"fmt"
	"unicode/utf8"
)

// DefaultAlphabet is used when Options.Alphabet is empty.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const minAlphabetLength = 3

func validateAlphabet(alphabet string) error {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] >= utf8.RuneSelf {
			return ErrAlphabetMultibyte
		}
	}
	if len(alphabet) < minAlphabetLength {
		return fmt.Errorf("%w: need at least %d characters, got %d", ErrAlphabetTooShort, minAlphabetLength, len(alphabet))
	}

	var seen [utf8.RuneSelf]bool
	for i := 0; i < len(alphabet); i++ {
		if seen[alphabet[i]] {
			return fmt.Errorf("%w: %q repeats", ErrAlphabetNotUnique, alphabet[i])
		}
		seen[alphabet[i]] = true
	}
	return nil
}

// shuffle returns the alphabet permuted by the fixed, self-seeded swap
// sequence every sqids implementation shares. The input is not modified.
func shuffle(alphabet []byte) []byte {
	chars := make([]byte, len(alphabet))
	copy(chars, alphabet)

	n := len(chars)
	for i, j := 0, n-1; j > 0; i, j = i+1, j-1 {
		r := (i*j + int(chars[i]) + int(chars[j])) % n
		chars[i], chars[r] = chars[r], chars[i]
	}
	return chars
}

// rotate returns alphabet[offset:] + alphabet[:offset].
func rotate(alphabet []byte, offset int) []byte {
	out := make([]byte, 0, len(alphabet))
	out = append(out, alphabet[offset:]...)
	return append(out, alphabet[:offset]...)
}

func reverse(alphabet []byte) []byte {
	out := make([]byte, len(alphabet))
	for i, c := range alphabet {
		out[len(alphabet)-1-i] = c
	}
	return out
}
