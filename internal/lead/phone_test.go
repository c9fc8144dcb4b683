package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneMask(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"one digit", "1", "1"},
		{"area code only", "11", "11"},
		{"three digits", "119", "(11) 9"},
		{"partial number", "119876", "(11) 9876"},
		{"seven digits", "1198765", "(11) 98765"},
		{"eight digits", "11987654", "(11) 98765-4"},
		{"full mobile", "11987654321", "(11) 98765-4321"},
		{"landline", "1133334444", "(11) 33334-444"},
		{"truncates past eleven", "119876543210000", "(11) 98765-4321"},
		{"strips punctuation", "(11) 98765-4321", "(11) 98765-4321"},
		{"strips letters", "a1b1c9", "(11) 9"},
		{"no digits", "abc-()", ""},
		{"non ascii digits ignored", "١١٩٨٧", ""},
	}

	for _, tt := range tests {
		tt := tt // per-iteration copy (pre-Go 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhoneMask(tt.in))
		})
	}
}

func TestFormatPhoneMaskIsStableUnderReformatting(t *testing.T) {
	inputs := []string{
		"", "1", "12", "123", "1234567", "12345678", "11987654321",
		"+55 (11) 98765-4321", "  119876 ", "99999999999999",
	}
	for _, in := range inputs {
		once := FormatPhoneMask(in)
		twice := FormatPhoneMask(Digits(once))
		assert.Equal(t, once, twice, "input %q", in)
		assert.Equal(t, once, FormatPhoneMask(once), "input %q", in)
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "11987654321", Digits("(11) 98765-4321"))
	assert.Equal(t, "", Digits("no digits here"))
}
