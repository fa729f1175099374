package contact

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
)

const (
	maxEmails = 10
	maxPhones = 5
)

// placeholderHosts are domains that show up in markup but never belong to
// the company.
var placeholderHosts = []string{"example.com", "example.org", "example.net", "sentry.io", "yourdomain", "domain.com"}

// ExtractEmails pulls distinct email addresses out of raw HTML, skipping
// placeholders and asset filenames that happen to match the pattern.
func ExtractEmails(html string) []string {
	var emails []string
	seen := make(map[string]bool)
	for _, m := range emailRe.FindAllString(html, -1) {
		e := strings.ToLower(m)
		if seen[e] || isPlaceholderEmail(e) {
			continue
		}
		seen[e] = true
		emails = append(emails, e)
		if len(emails) >= maxEmails {
			break
		}
	}
	return emails
}

func isPlaceholderEmail(e string) bool {
	for _, h := range placeholderHosts {
		if strings.Contains(e, h) {
			return true
		}
	}
	// "logo@2x.png" style asset names match the email pattern.
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"} {
		if strings.HasSuffix(e, ext) {
			return true
		}
	}
	return false
}

// ExtractPhones pulls distinct phone-number-shaped strings out of raw HTML.
// Validation happens later; this just collects candidates.
func ExtractPhones(html string) []string {
	var phones []string
	seen := make(map[string]bool)
	for _, m := range phoneRe.FindAllString(html, -1) {
		p := strings.TrimSpace(m)
		if len(digitsOnly(p)) < 7 || seen[p] {
			continue
		}
		seen[p] = true
		phones = append(phones, p)
		if len(phones) >= maxPhones {
			break
		}
	}
	return phones
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
