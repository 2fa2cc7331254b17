package sqids

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Options configures a Sqids encoder. The zero value selects the defaults.
type Options struct {
	// Alphabet is the set of characters IDs are built from. Empty selects
	// DefaultAlphabet.
	Alphabet string

	// MinLength pads shorter IDs up to this many characters. It must lie in
	// [0, len(Alphabet)].
	MinLength int

	// Blocklist lists words IDs must not contain. A nil slice selects the
	// built-in list; a non-nil slice, even an empty one, replaces it.
	Blocklist []string

	// MaxValue is the largest number Encode accepts. Zero means
	// math.MaxUint64.
	MaxValue uint64
}

// Sqids encodes and decodes IDs. It is immutable once built and safe for
// concurrent use.
type Sqids struct {
	alphabet  []byte
	minLength int
	blocklist blocklist
	maxValue  uint64
}

// New validates opts and builds an encoder.
func New(opts Options) (*Sqids, error) {
	alphabet := opts.Alphabet
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if err := validateAlphabet(alphabet); err != nil {
		return nil, fmt.Errorf("invalid alphabet: %w", err)
	}

	if opts.MinLength < 0 || opts.MinLength > len(alphabet) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrMinLength, opts.MinLength, len(alphabet))
	}

	words := opts.Blocklist
	if words == nil {
		words = defaultBlocklist()
	}

	maxValue := opts.MaxValue
	if maxValue == 0 {
		maxValue = math.MaxUint64
	}

	return &Sqids{
		alphabet:  shuffle([]byte(alphabet)),
		minLength: opts.MinLength,
		blocklist: newBlocklist(words, alphabet),
		maxValue:  maxValue,
	}, nil
}

// Encode turns numbers into an ID. An empty slice encodes to "".
func (s *Sqids) Encode(numbers []uint64) (string, error) {
	if len(numbers) == 0 {
		return "", nil
	}
	for _, n := range numbers {
		if n > s.maxValue {
			return "", fmt.Errorf("%w: %d exceeds %d", ErrOutOfRange, n, s.maxValue)
		}
	}

	for attempt := 0; ; attempt++ {
		if attempt > len(s.alphabet) {
			return "", ErrMaxAttempts
		}
		id := s.generate(numbers, attempt)
		if !s.blocklist.isBlocked(id) {
			return id, nil
		}
	}
}

// EncodeInts is Encode for signed input. Negative numbers are out of range.
func (s *Sqids) EncodeInts(numbers []int64) (string, error) {
	unsigned := make([]uint64, len(numbers))
	for i, n := range numbers {
		if n < 0 {
			return "", fmt.Errorf("%w: %d is negative", ErrOutOfRange, n)
		}
		unsigned[i] = uint64(n)
	}
	return s.Encode(unsigned)
}

func (s *Sqids) offset(numbers []uint64, attempt int) int {
	size := len(s.alphabet)
	offset := len(numbers)
	for i, n := range numbers {
		offset += int(s.alphabet[n%uint64(size)]) + i
	}
	return (offset%size + attempt) % size
}

func (s *Sqids) generate(numbers []uint64, attempt int) string {
	alphabet := rotate(s.alphabet, s.offset(numbers, attempt))
	prefix := alphabet[0]
	alphabet = reverse(alphabet)

	var id strings.Builder
	id.WriteByte(prefix)
	for i, n := range numbers {
		id.Write(toID(n, alphabet[1:]))
		if i < len(numbers)-1 {
			id.WriteByte(alphabet[0])
			alphabet = shuffle(alphabet)
		}
	}

	if id.Len() < s.minLength {
		id.WriteByte(alphabet[0])
		for id.Len() < s.minLength {
			alphabet = shuffle(alphabet)
			id.Write(alphabet[:min(s.minLength-id.Len(), len(alphabet))])
		}
	}
	return id.String()
}

// Decode turns an ID back into numbers. Malformed input never fails: it
// yields an empty slice, or the numbers read before the first segment that
// could not be decoded.
func (s *Sqids) Decode(id string) []uint64 {
	numbers := []uint64{}
	if id == "" {
		return numbers
	}
	for i := 0; i < len(id); i++ {
		if bytes.IndexByte(s.alphabet, id[i]) < 0 {
			return numbers
		}
	}

	offset := bytes.IndexByte(s.alphabet, id[0])
	alphabet := reverse(rotate(s.alphabet, offset))

	rest := []byte(id[1:])
	for len(rest) > 0 {
		chunk, tail, found := bytes.Cut(rest, alphabet[:1])
		// an empty chunk is the padding marker
		if len(chunk) == 0 {
			return numbers
		}
		n, ok := toNumber(chunk, alphabet[1:])
		if !ok {
			return numbers
		}
		numbers = append(numbers, n)
		if found {
			alphabet = shuffle(alphabet)
		}
		rest = tail
	}
	return numbers
}

// IsBlocked reports whether id would be rejected by the effective blocklist.
func (s *Sqids) IsBlocked(id string) bool {
	return s.blocklist.isBlocked(id)
}

// Alphabet returns the shuffled alphabet IDs are built from.
func (s *Sqids) Alphabet() string {
	return string(s.alphabet)
}

// MinLength returns the configured minimum ID length.
func (s *Sqids) MinLength() int {
	return s.minLength
}

// MaxValue returns the largest number Encode accepts.
func (s *Sqids) MaxValue() uint64 {
	return s.maxValue
}

// Blocklist returns the effective, lower-cased blocklist in sorted order.
func (s *Sqids) Blocklist() []string {
	return s.blocklist.words()
}
