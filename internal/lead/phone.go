package lead

import "strings"

// MaxPhoneDigits is the longest Brazilian mobile number: 2 area digits + 9.
const MaxPhoneDigits = 11

// Digits returns only the ASCII digits of s, in order.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhoneMask formats raw input progressively as "(DD) DDDDD-DDDD".
//
//	0-2 digits  -> digits as typed
//	3-7 digits  -> "(DD) D..."
//	8-11 digits -> "(DD) DDDDD-D..."
//
// Digits beyond the eleventh are dropped.
func FormatPhoneMask(raw string) string {
	d := Digits(raw)
	if len(d) > MaxPhoneDigits {
		d = d[:MaxPhoneDigits]
	}

	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}
