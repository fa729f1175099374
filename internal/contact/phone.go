package contact

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ukCountries = map[string]bool{
	"gb": true, "uk": true, "united kingdom": true, "great britain": true,
	"england": true, "scotland": true, "wales": true, "northern ireland": true,
}

// IsUKCountry reports whether a country code or name refers to the UK.
func IsUKCountry(country string) bool {
	return ukCountries[strings.ToLower(strings.TrimSpace(country))]
}

// FormatUKPhone normalizes a UK number to +44 with spaced grouping:
// "020 7946 0958" becomes "+44 2079 460 958". Non-UK countries pass
// through unchanged. Numbers that don't land on 10 or 11 significant
// digits after stripping the leading 0 or 44 are discarded (empty result)
// rather than kept malformed.
func FormatUKPhone(phone, country string) string {
	if !IsUKCountry(country) {
		return phone
	}

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case strings.HasPrefix(d, "44"):
		d = d[2:]
	case strings.HasPrefix(d, "0"):
		d = d[1:]
	}

	switch len(d) {
	case 10:
		return "+44 " + d[:4] + " " + d[4:7] + " " + d[7:]
	case 11:
		return "+44 " + d[:3] + " " + d[3:7] + " " + d[7:]
	default:
		return ""
	}
}

// ChoosePhone picks the best candidate from extracted numbers, preferring
// ones already carrying an international prefix.
func ChoosePhone(phones []string) string {
	if len(phones) == 0 {
		return ""
	}
	for _, p := range phones {
		if strings.HasPrefix(strings.TrimSpace(p), "+") {
			return strings.TrimSpace(p)
		}
	}
	return strings.TrimSpace(phones[0])
}

// regionForCountry maps our country strings onto phonenumbers regions.
func regionForCountry(country string) string {
	if IsUKCountry(country) {
		return "GB"
	}
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "us", "usa", "united states":
		return "US"
	case "ca", "canada":
		return "CA"
	case "au", "australia":
		return "AU"
	case "de", "germany":
		return "DE"
	case "fr", "france":
		return "FR"
	default:
		return "GB"
	}
}

// ValidSnippetPhone reports whether a number pulled out of a search snippet
// parses as a valid number for the company's country. Snippet text is far
// noisier than page markup, so candidates get full validation before use.
func ValidSnippetPhone(candidate, country string) bool {
	num, err := phonenumbers.Parse(candidate, regionForCountry(country))
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
