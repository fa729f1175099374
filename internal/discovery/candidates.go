package discovery

import "strings"

// countryTLDs maps a country to the TLDs tried for it, most likely first.
// Keys cover both ISO codes and the names that appear in imported records.
var countryTLDs = map[string][]string{
	"gb":             {"co.uk", "com", "uk"},
	"uk":             {"co.uk", "com", "uk"},
	"united kingdom": {"co.uk", "com", "uk"},
	"great britain":  {"co.uk", "com", "uk"},
	"england":        {"co.uk", "com", "uk"},
	"scotland":       {"co.uk", "com", "uk"},
	"wales":          {"co.uk", "com", "uk"},
	"northern ireland": {"co.uk", "com", "uk"},
	"us":             {"com", "us", "net"},
	"united states":  {"com", "us", "net"},
	"usa":            {"com", "us", "net"},
	"ca":             {"ca", "com"},
	"canada":         {"ca", "com"},
	"au":             {"com.au", "com", "au"},
	"australia":      {"com.au", "com", "au"},
	"de":             {"de", "com"},
	"germany":        {"de", "com"},
	"fr":             {"fr", "com"},
	"france":         {"fr", "com"},
}

var defaultTLDs = []string{"com", "net", "org"}

// TLDsForCountry returns the ordered TLD list for a country code or name.
func TLDsForCountry(country string) []string {
	if tlds, ok := countryTLDs[strings.ToLower(strings.TrimSpace(country))]; ok {
		return tlds
	}
	return defaultTLDs
}

// Candidates generates probe URLs for a company name, grouped by TLD so the
// country TLD outranks .com: for "Acme Ltd" in GB, https://www.acme.co.uk
// comes before https://acme.com. Within each TLD the www. form of the plain
// slug is tried first, then the bare form, then the hyphenated variants.
func Candidates(name, country string) []string {
	slug := Slugify(name)
	if slug == "" {
		return nil
	}
	hyph := SlugifyHyphenated(name)

	hosts := []string{slug}
	if hyph != slug {
		hosts = append(hosts, hyph)
	}

	var urls []string
	seen := make(map[string]bool)
	for _, tld := range TLDsForCountry(country) {
		for _, h := range hosts {
			domain := h + "." + tld
			for _, u := range []string{"https://www." + domain, "https://" + domain} {
				if !seen[u] {
					seen[u] = true
					urls = append(urls, u)
				}
			}
		}
	}
	return urls
}
