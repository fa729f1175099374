package contact

import (
	"regexp"
	"strings"
)

// genericLocal matches catch-all local parts nobody reads personally. The
// trailing class keeps longer names (information, supportive) personal.
var genericLocal = regexp.MustCompile(`^(info|contact|hello|support|sales|admin|noreply|no-reply|enquiries|enquiry|mail|office)([@+._-]|$)`)

// formatHint looks for an address-format mention in page copy, e.g.
// "email us in the format first.last@acme.co.uk".
var formatHint = regexp.MustCompile(`(?i)format[^@]{0,40}?([a-z]+[._][a-z]+|firstname|first)@`)

// EmailPick is the outcome of email selection. Inferred marks results that
// are guesses (a detected format pattern or a synthesized placeholder), not
// addresses actually observed on the page; consumers must not present them
// as fact.
type EmailPick struct {
	Address  string `json:"address,omitempty"`
	Format   string `json:"format,omitempty"`
	Inferred bool   `json:"inferred"`
}

// localFormat classifies an observed local part into a reusable pattern.
func localFormat(local string) string {
	switch {
	case strings.Contains(local, "."):
		return "first.last"
	case strings.Contains(local, "_"):
		return "first_last"
	case len(local) <= 8 && isAlpha(local):
		return "firstname"
	default:
		return "firstlast"
	}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}

// personalLooking reports whether a local part looks like a person rather
// than a mailbox: dotted names, or a short pure-alpha token.
func personalLooking(local string) bool {
	return strings.Contains(local, ".") || (len(local) <= 8 && isAlpha(local))
}

// ChooseEmail selects the best address from the extracted candidates for a
// company domain. Personal-looking company-domain addresses win over
// generics. With no personal address, a format hinted in the page copy
// outranks the generic's own pattern; with nothing on the company domain at
// all it falls to a hello@ placeholder. Off-domain addresses are never
// returned when the domain is known. Guessed formats are tagged Inferred.
func ChooseEmail(emails []string, domain, pageText string) EmailPick {
	domain = strings.ToLower(strings.TrimPrefix(domain, "www."))

	var companyGeneric string
	var anyAddress string
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		at := strings.LastIndex(e, "@")
		if at <= 0 {
			continue
		}
		local, host := e[:at], e[at+1:]
		if domain == "" {
			if anyAddress == "" {
				anyAddress = e
			}
			continue
		}
		if host != domain && host != "www."+domain {
			continue
		}
		if genericLocal.MatchString(local) {
			if companyGeneric == "" {
				companyGeneric = e
			}
			continue
		}
		if personalLooking(local) {
			return EmailPick{Address: e, Format: localFormat(local)}
		}
		// Non-generic but odd-looking: keep as a fallback over generics.
		if companyGeneric == "" {
			companyGeneric = e
		}
	}

	hint := hintedFormat(pageText)

	if companyGeneric != "" {
		if hint != "" {
			return EmailPick{Address: companyGeneric, Format: hint, Inferred: true}
		}
		return EmailPick{Address: companyGeneric, Format: localFormat(localPart(companyGeneric))}
	}

	if hint != "" {
		return EmailPick{Format: hint, Inferred: true}
	}

	if domain != "" {
		return EmailPick{Address: "hello@" + domain, Format: "generic", Inferred: true}
	}

	if anyAddress != "" {
		return EmailPick{Address: anyAddress, Format: localFormat(localPart(anyAddress)), Inferred: true}
	}
	return EmailPick{}
}

// hintedFormat extracts an address-format pattern mentioned in page copy.
func hintedFormat(pageText string) string {
	m := formatHint.FindStringSubmatch(pageText)
	if m == nil {
		return ""
	}
	pattern := strings.ToLower(m[1])
	switch {
	case strings.Contains(pattern, "."):
		return "first.last"
	case strings.Contains(pattern, "_"):
		return "first_last"
	default:
		return "firstname"
	}
}

func localPart(email string) string {
	if at := strings.LastIndex(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
