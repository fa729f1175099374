package contact

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Record is the merged contact data one scrape pass produced for a company.
type Record struct {
	Website       string            `json:"website"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty"`
	EmailFormat   string            `json:"email_format,omitempty"`
	EmailInferred bool              `json:"email_inferred"`
	Social        map[string]string `json:"social_links,omitempty"`
	Address       string            `json:"address,omitempty"`
	Industry      string            `json:"industry,omitempty"`
}

// Empty reports whether the pass found nothing usable.
func (r *Record) Empty() bool {
	return r.Phone == "" && r.Email == "" && r.Address == "" &&
		r.Industry == "" && len(r.Social) == 0
}

// industryKeywords maps meta-copy keywords to a coarse industry label.
// Ordered so more specific terms win.
var industryKeywords = []struct {
	keyword  string
	industry string
}{
	{"construction", "Construction"},
	{"software", "Software & Technology"},
	{"technology", "Software & Technology"},
	{"recruitment", "Recruitment"},
	{"accounting", "Accounting & Finance"},
	{"financial", "Accounting & Finance"},
	{"marketing", "Marketing & Advertising"},
	{"manufacturing", "Manufacturing"},
	{"healthcare", "Healthcare"},
	{"education", "Education"},
	{"legal", "Legal Services"},
	{"solicitor", "Legal Services"},
	{"property", "Property & Real Estate"},
	{"real estate", "Property & Real Estate"},
	{"logistics", "Transport & Logistics"},
	{"transport", "Transport & Logistics"},
	{"restaurant", "Food & Hospitality"},
	{"catering", "Food & Hospitality"},
	{"consulting", "Consulting"},
	{"retail", "Retail"},
}

// Scraper extracts contact data from a company website, honoring robots.txt.
type Scraper struct {
	robots  *Robots
	fetcher *Fetcher
}

// NewScraper creates a Scraper.
func NewScraper(robots *Robots, fetcher *Fetcher) *Scraper {
	return &Scraper{robots: robots, fetcher: fetcher}
}

// ScrapePage fetches one URL if robots.txt allows it. A disallow returns
// (nil, nil): a policy refusal is absence of data, not an error.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) (*Page, error) {
	if !s.robots.Allowed(ctx, pageURL) {
		zap.L().Debug("robots disallow", zap.String("url", pageURL))
		return nil, nil
	}
	return s.fetcher.FetchPage(ctx, pageURL)
}

// ScrapeCompanyContacts scrapes a company's site: the landing page, then the
// contact page when one is discoverable and allowed, merged into one Record.
// Emails and phones are unioned; contact-page social links and address take
// precedence. Phone and email then go through the country-aware format and
// preference heuristics.
func (s *Scraper) ScrapeCompanyContacts(ctx context.Context, siteURL, country string) (*Record, error) {
	rec := &Record{Website: siteURL, Social: make(map[string]string)}

	main, err := s.ScrapePage(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	if main == nil {
		// Disallowed outright: report no data.
		return rec, nil
	}

	emails := main.Emails
	phones := main.Phones
	text := main.Text
	for k, v := range main.Social {
		rec.Social[k] = v
	}
	rec.Address = main.Address

	if contactURL := s.contactURL(main, siteURL); contactURL != "" {
		if cp, err := s.ScrapePage(ctx, contactURL); err == nil && cp != nil {
			emails = unionCapped(emails, cp.Emails, maxEmails)
			phones = unionCapped(phones, cp.Phones, maxPhones)
			text += "\n" + cp.Text
			for k, v := range cp.Social {
				rec.Social[k] = v
			}
			if cp.Address != "" {
				rec.Address = cp.Address
			}
		}
	}

	if IsUKCountry(country) {
		// Invalid UK candidates are dropped, not kept malformed.
		for _, p := range phones {
			if formatted := FormatUKPhone(p, country); formatted != "" {
				rec.Phone = formatted
				break
			}
		}
	} else {
		rec.Phone = ChoosePhone(phones)
	}

	pick := ChooseEmail(emails, hostOf(siteURL), text)
	rec.Email = pick.Address
	rec.EmailFormat = pick.Format
	rec.EmailInferred = pick.Inferred

	rec.Industry = inferIndustry(main.Title + " " + main.Description)

	return rec, nil
}

// contactURL picks the contact page to follow: a discovered link, else the
// conventional /contact path.
func (s *Scraper) contactURL(main *Page, siteURL string) string {
	if main.ContactURL != "" && main.ContactURL != siteURL {
		return main.ContactURL
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	base.Path = "/contact"
	base.RawQuery = ""
	return base.String()
}

func unionCapped(a, b []string, cap int) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if len(out) >= cap {
			break
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) > cap {
		out = out[:cap]
	}
	return out
}

func inferIndustry(metaCopy string) string {
	lower := strings.ToLower(metaCopy)
	for _, kw := range industryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.industry
		}
	}
	return ""
}
