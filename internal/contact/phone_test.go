package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUKPhone_LondonNumber(t *testing.T) {
	// 0-led 10-digit number groups as 4-3-3 after the country code.
	assert.Equal(t, "+44 2079 460 958", FormatUKPhone("020 7946 0958", "England"))
	assert.Equal(t, "+44 2079 460 958", FormatUKPhone("+44 20 7946 0958", "United Kingdom"))
	assert.Equal(t, "+44 2079 460 958", FormatUKPhone("02079460958", "GB"))
}

func TestFormatUKPhone_MobileNumber(t *testing.T) {
	assert.Equal(t, "+44 7912 345 678", FormatUKPhone("07912 345678", "Scotland"))
	assert.Equal(t, "+44 7912 345 678", FormatUKPhone("447912345678", "Wales"))
}

func TestFormatUKPhone_ElevenDigits(t *testing.T) {
	// 11 significant digits group as 3-4-4.
	assert.Equal(t, "+44 123 4567 8901", FormatUKPhone("0123 4567 8901 ", "England"))
}

func TestFormatUKPhone_NonUKUnchanged(t *testing.T) {
	assert.Equal(t, "(415) 555-2671", FormatUKPhone("(415) 555-2671", "US"))
	assert.Equal(t, "whatever", FormatUKPhone("whatever", "Germany"))
}

func TestFormatUKPhone_InvalidDiscarded(t *testing.T) {
	// Too few or too many significant digits: dropped, not kept malformed.
	assert.Empty(t, FormatUKPhone("0123 456", "England"))
	assert.Empty(t, FormatUKPhone("0123456789012345", "England"))
	assert.Empty(t, FormatUKPhone("no digits here", "England"))
}

func TestChoosePhone(t *testing.T) {
	assert.Equal(t, "+44 20 7946 0958", ChoosePhone([]string{"020 7946 0958", "+44 20 7946 0958"}))
	assert.Equal(t, "020 7946 0958", ChoosePhone([]string{"020 7946 0958", "0161 496 0000"}))
	assert.Empty(t, ChoosePhone(nil))
}

func TestIsUKCountry(t *testing.T) {
	for _, c := range []string{"GB", "uk", "United Kingdom", "England", "scotland"} {
		assert.True(t, IsUKCountry(c), c)
	}
	for _, c := range []string{"US", "France", ""} {
		assert.False(t, IsUKCountry(c), c)
	}
}

func TestValidSnippetPhone(t *testing.T) {
	assert.True(t, ValidSnippetPhone("020 7946 0958", "England"))
	assert.True(t, ValidSnippetPhone("(415) 555-2671", "US"))
	assert.False(t, ValidSnippetPhone("12345", "England"))
	assert.False(t, ValidSnippetPhone("0000000000", "England"))
}
