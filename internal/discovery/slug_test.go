package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Acme Ltd", "acme"},
		{"Acme Widgets Limited", "acmewidgets"},
		{"ACME HOLDINGS PLC", "acme"},
		{"Smith & Jones LLP", "smithjones"},
		{"Café Brünn GmbH", "cafebrunn"},
		{"O'Brien Consulting", "obrienconsulting"},
		{"Ltd", "ltd"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "name=%q", tc.name)
	}
}

func TestSlugifyHyphenated(t *testing.T) {
	assert.Equal(t, "acme-widgets", SlugifyHyphenated("Acme Widgets Ltd"))
	assert.Equal(t, "acme", SlugifyHyphenated("Acme Ltd"))
	assert.Equal(t, "smith-jones", SlugifyHyphenated("Smith & Jones LLP"))
}

func TestTLDsForCountry(t *testing.T) {
	assert.Equal(t, []string{"co.uk", "com", "uk"}, TLDsForCountry("GB"))
	assert.Equal(t, []string{"co.uk", "com", "uk"}, TLDsForCountry("United Kingdom"))
	assert.Equal(t, []string{"com", "us", "net"}, TLDsForCountry("US"))
	assert.Equal(t, []string{"ca", "com"}, TLDsForCountry("Canada"))
	assert.Equal(t, []string{"com.au", "com", "au"}, TLDsForCountry("AU"))
	assert.Equal(t, []string{"de", "com"}, TLDsForCountry("de"))
	assert.Equal(t, []string{"fr", "com"}, TLDsForCountry("France"))
	assert.Equal(t, []string{"com", "net", "org"}, TLDsForCountry("Narnia"))
}

func TestCandidates_CountryTLDOutranksCom(t *testing.T) {
	urls := Candidates("Acme Ltd", "GB")

	assert.Equal(t, []string{
		"https://www.acme.co.uk",
		"https://acme.co.uk",
		"https://www.acme.com",
		"https://acme.com",
		"https://www.acme.uk",
		"https://acme.uk",
	}, urls)
}

func TestCandidates_HyphenatedVariant(t *testing.T) {
	urls := Candidates("Acme Widgets Ltd", "US")

	assert.Equal(t, []string{
		"https://www.acmewidgets.com",
		"https://acmewidgets.com",
		"https://www.acme-widgets.com",
		"https://acme-widgets.com",
		"https://www.acmewidgets.us",
		"https://acmewidgets.us",
		"https://www.acme-widgets.us",
		"https://acme-widgets.us",
		"https://www.acmewidgets.net",
		"https://acmewidgets.net",
		"https://www.acme-widgets.net",
		"https://acme-widgets.net",
	}, urls)
}

func TestCandidates_EmptyName(t *testing.T) {
	assert.Nil(t, Candidates("", "GB"))
	assert.Nil(t, Candidates("&&&", "GB"))
}
