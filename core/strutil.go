package core

import "errors"

var (
	ErrEmptyNumber   = errors.New("empty number")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNumberRange   = errors.New("number out of range")
)

const hexDigits = "0123456789ABCDEF"

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	// Work on the magnitude as unsigned so the minimum int has no overflow
	negative := n < 0
	u := uint64(n)
	if negative {
		u = -u
	}

	var buf [21]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

// Itoa is the exported form of itoa for driver packages
func Itoa(n int) string { return itoa(n) }

// Utoa is the exported form of utoa for driver packages
func Utoa(n uint32) string { return utoa(n) }

// Hex8 formats v as 0xNN
func Hex8(v uint8) string {
	return string([]byte{'0', 'x', hexDigits[v>>4], hexDigits[v&0x0F]})
}

// Hex16 formats v as 0xNNNN
func Hex16(v uint16) string {
	return string([]byte{
		'0', 'x',
		hexDigits[(v>>12)&0x0F], hexDigits[(v>>8)&0x0F],
		hexDigits[(v>>4)&0x0F], hexDigits[v&0x0F],
	})
}

// ParseUint parses a decimal, 0x-prefixed hexadecimal or 0b-prefixed binary
// number that must fit in bits bits. It is used on the firmware side where strconv pulls in
// more than we need.
func ParseUint(s string, bits uint) (uint32, error) {
	if len(s) == 0 {
		return 0, ErrEmptyNumber
	}

	base := uint64(10)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	} else if len(s) > 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B') {
		base = 2
		s = s[2:]
	}

	limit := uint64(1)<<bits - 1
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		case c == '_':
			continue
		default:
			return 0, ErrInvalidNumber
		}
		if d >= base {
			return 0, ErrInvalidNumber
		}
		v = v*base + d
		if v > limit {
			return 0, ErrNumberRange
		}
	}

	return uint32(v), nil
}

// ParseInt parses a signed decimal number that must fit in an int32
func ParseInt(s string) (int32, error) {
	if len(s) == 0 {
		return 0, ErrEmptyNumber
	}
	negative := s[0] == '-'
	if negative || s[0] == '+' {
		s = s[1:]
	}
	v, err := ParseUint(s, 31)
	if err != nil {
		// -2147483648 does not fit the positive range
		if negative && err == ErrNumberRange && s == "2147483648" {
			return -2147483648, nil
		}
		return 0, err
	}
	if negative {
		return -int32(v), nil
	}
	return int32(v), nil
}
