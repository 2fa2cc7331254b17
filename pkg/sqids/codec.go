package sqids

import (
	"bytes"
	"math/bits"
)

// toID writes num in base len(digits), most significant digit first.
func toID(num uint64, digits []byte) []byte {
	base := uint64(len(digits))

	var buf [64]byte
	i := len(buf)
	for {
		i--
		buf[i] = digits[num%base]
		num /= base
		if num == 0 {
			break
		}
	}
	return append([]byte(nil), buf[i:]...)
}

// toNumber is the inverse of toID. ok is false when id holds a character
// outside digits or the value does not fit in a uint64.
func toNumber(id []byte, digits []byte) (num uint64, ok bool) {
	base := uint64(len(digits))
	for _, c := range id {
		d := bytes.IndexByte(digits, c)
		if d < 0 {
			return 0, false
		}
		hi, lo := bits.Mul64(num, base)
		if hi != 0 {
			return 0, false
		}
		sum, carry := bits.Add64(lo, uint64(d), 0)
		if carry != 0 {
			return 0, false
		}
		num = sum
	}
	return num, true
}
