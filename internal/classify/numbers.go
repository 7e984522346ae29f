package classify

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNumberRange  = errors.New("value does not fit in 64 bits")
	errNumberDigits = errors.New("invalid digit for base")
)

// HexLiteral rewrites a plain decimal integer literal to hexadecimal. A
// literal with a leading zero is octal, as in C. Integer suffixes are kept:
// "123" → "0x7b", "010u" → "0x8u".
func HexLiteral(text string) (string, error) {
	digits := strings.TrimRight(text, "uUlL")
	suffix := text[len(digits):]

	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		base = 8
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return text, errNumberRange
		}
		return text, errNumberDigits
	}
	return "0x" + strconv.FormatUint(v, 16) + suffix, nil
}
