package sqids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSqids(t *testing.T, opts Options) *Sqids {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func TestDefaultBlocklist(t *testing.T) {
	s := newTestSqids(t, Options{})

	assert.Equal(t, []uint64{4572721}, s.Decode("aho1e"))
	id, err := s.Encode([]uint64{4572721})
	require.NoError(t, err)
	assert.Equal(t, "JExTR", id)
}

func TestEmptyBlocklistDisablesFiltering(t *testing.T) {
	s := newTestSqids(t, Options{Blocklist: []string{}})

	assert.Empty(t, s.Blocklist())
	assert.Equal(t, []uint64{4572721}, s.Decode("aho1e"))
	id, err := s.Encode([]uint64{4572721})
	require.NoError(t, err)
	assert.Equal(t, "aho1e", id)
}

func TestCustomBlocklistReplacesDefault(t *testing.T) {
	// ArUO is the regular encoding of 100000
	s := newTestSqids(t, Options{Blocklist: []string{"ArUO"}})

	id, err := s.Encode([]uint64{4572721})
	require.NoError(t, err)
	assert.Equal(t, "aho1e", id)

	assert.Equal(t, []uint64{100000}, s.Decode("ArUO"))
	id, err = s.Encode([]uint64{100000})
	require.NoError(t, err)
	assert.Equal(t, "QyG4", id)
	assert.Equal(t, []uint64{100000}, s.Decode("QyG4"))
}

func TestBlocklistRegeneratesSeveralTimes(t *testing.T) {
	s := newTestSqids(t, Options{Blocklist: []string{
		"JSwXFaosAN", // first attempt
		"OCjV9JK64o", // second attempt
		"rBHf",       // substring of 4rBHfOiqd3
		"79SM",       // suffix of dyhgw479SM
		"7tE6",       // prefix of 7tE6jdAHLe
	}})

	id, err := s.Encode([]uint64{1_000_000, 2_000_000})
	require.NoError(t, err)
	assert.Equal(t, "1aYeB7bRUt", id)
	assert.Equal(t, []uint64{1_000_000, 2_000_000}, s.Decode(id))
}

func TestDecodeIgnoresBlocklist(t *testing.T) {
	blocked := []string{"86Rf07", "se8ojk", "ARsz1p", "Q8AI49", "5sQRZO"}
	s := newTestSqids(t, Options{Blocklist: blocked})

	for _, id := range blocked {
		assert.Equal(t, []uint64{1, 2, 3}, s.Decode(id), id)
	}

	id, err := s.Encode([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "KA5FQN", id)
}

func TestShortBlocklistWord(t *testing.T) {
	s := newTestSqids(t, Options{Blocklist: []string{"pnd"}})

	id, err := s.Encode([]uint64{1000})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1000}, s.Decode(id))
}

func TestBlocklistFilteredByAlphabet(t *testing.T) {
	s := newTestSqids(t, Options{
		Alphabet:  "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		Blocklist: []string{"sxnzkl"},
	})

	// without the blocklist this would be SXNZKL, and the word is kept
	// because matching ignores case
	assert.Equal(t, []string{"sxnzkl"}, s.Blocklist())
	id, err := s.Encode([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "IBSHOZ", id)
	assert.Equal(t, []uint64{1, 2, 3}, s.Decode(id))
}

func TestNewBlocklistFilters(t *testing.T) {
	bl := newBlocklist([]string{"ab", "ABC", "abd", "a-b-c", "cab1", "cab"}, "abcABC123")

	assert.Equal(t, []string{"abc", "cab", "cab1"}, bl.words())
}

func TestBlocklistFilterDropsForeignCharacters(t *testing.T) {
	s := newTestSqids(t, Options{
		Alphabet:  "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		Blocklist: []string{"abc1", "ab-cd", "xyz"},
	})

	assert.Equal(t, []string{"xyz"}, s.Blocklist())
}

func TestMaxAttempts(t *testing.T) {
	s := newTestSqids(t, Options{
		Alphabet:  "abc",
		MinLength: 3,
		Blocklist: []string{"abc", "acb", "bac", "bca", "cab", "cba"},
	})

	_, err := s.Encode([]uint64{0})
	assert.ErrorIs(t, err, ErrMaxAttempts)
	assert.EqualError(t, err, "maximum regeneration attempts exceeded")
}

func TestRegenerationFindsFreeRotation(t *testing.T) {
	s := newTestSqids(t, Options{
		Alphabet:  "abc",
		MinLength: 3,
		Blocklist: []string{"cab", "abc"},
	})

	id, err := s.Encode([]uint64{0})
	require.NoError(t, err)
	assert.Equal(t, "bca", id)
	assert.Equal(t, []uint64{0}, s.Decode(id))
}

func TestIsBlockedScenarios(t *testing.T) {
	tests := []struct {
		name      string
		blocklist []string
		numbers   []uint64
		want      string
	}{
		{"short word must match exactly", []string{"hey"}, []uint64{100}, "86u"},
		{"short id equal to word", []string{"86u"}, []uint64{100}, "sec"},
		{"short word inside longer id", []string{"vFo"}, []uint64{1_000_000}, "gMvFo"},
		{"digit word at start", []string{"lP3i"}, []uint64{100, 202, 303, 404}, "oDqljxrokxRt"},
		{"digit word at end", []string{"1HkYs"}, []uint64{100, 202, 303, 404}, "oDqljxrokxRt"},
		{"digit word in the middle", []string{"0hfxX"}, []uint64{101, 202, 303, 404, 505, 606, 707}, "862REt0hfxXVdsLG8vGWD"},
		{"plain word in the middle", []string{"hfxX"}, []uint64{101, 202, 303, 404, 505, 606, 707}, "seu8n1jO9C4KQQDxdOxsK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSqids(t, Options{Blocklist: tt.blocklist})

			id, err := s.Encode(tt.numbers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.numbers, s.Decode(id))
		})
	}
}

func TestIsBlocked(t *testing.T) {
	bl := newBlocklist([]string{"fuck", "pen1s", "ass"}, DefaultAlphabet)

	tests := []struct {
		id   string
		want bool
	}{
		{"ass", true},
		{"ASS", true},
		{"xassx", false},
		{"xFuCkx", true},
		{"pen1sxx", true},
		{"xxpen1s", true},
		{"xpen1sx", false},
		{"fuc", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, bl.isBlocked(tt.id))
		})
	}
}

func TestDefaultBlocklistIsCopy(t *testing.T) {
	words := DefaultBlocklist()
	require.NotEmpty(t, words)
	words[0] = "changed"
	assert.NotEqual(t, "changed", DefaultBlocklist()[0])
}
