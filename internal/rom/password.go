package rom

import (
	"strconv"
)

// MaxPassword is the largest password representable in 8 decimal digits.
const MaxPassword = 99999999

// EncodePassword packs v as eight BCD digits, two per byte, and returns the
// bytes in stored (reversed) order.
func EncodePassword(v uint32) ([4]byte, error) {
	var out [4]byte
	if v > MaxPassword {
		return out, &EncodingError{Field: "password", Value: strconv.FormatUint(uint64(v), 10)}
	}
	var digits [8]byte
	for i := 7; i >= 0; i-- {
		digits[i] = byte(v % 10)
		v /= 10
	}
	for i := 0; i < 4; i++ {
		out[3-i] = digits[2*i]<<4 | digits[2*i+1]
	}
	return out, nil
}

// DecodePassword reverses EncodePassword. Nibbles above 9 read as 0.
func DecodePassword(b [4]byte) uint32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		for _, n := range [2]byte{b[i] >> 4, b[i] & 0x0F} {
			if n > 9 {
				n = 0
			}
			v = v*10 + uint32(n)
		}
	}
	return v
}

// ParsePassword parses a decimal password string of at most eight digits.
func ParsePassword(s string) (uint32, error) {
	if len(s) == 0 || len(s) > 8 {
		return 0, &EncodingError{Field: "password", Value: s}
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v > MaxPassword {
		return 0, &EncodingError{Field: "password", Value: s}
	}
	return uint32(v), nil
}

// FormatPassword renders a password as its eight-digit string.
func FormatPassword(v uint32) string {
	s := strconv.FormatUint(uint64(v), 10)
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}
