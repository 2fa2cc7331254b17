package app

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/bunchhieng/sqid/pkg/sqids"
)

// Fingerprint hashes everything that influences the IDs codec produces.
func Fingerprint(codec *sqids.Sqids) string {
	d := xxhash.New()
	_, _ = d.WriteString(codec.Alphabet())
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(codec.MinLength()))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.FormatUint(codec.MaxValue(), 10))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.Join(codec.Blocklist(), "\x00"))
	return strconv.FormatUint(d.Sum64(), 16)
}
