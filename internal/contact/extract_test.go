package contact

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	html := `<p>Email info@acme.co.uk or john.smith@acme.co.uk.
		Duplicate: info@acme.co.uk. Placeholder: user@example.com.
		Asset: logo@2x.png</p>`

	emails := ExtractEmails(html)
	assert.Equal(t, []string{"info@acme.co.uk", "john.smith@acme.co.uk"}, emails)
}

func TestExtractEmails_Cap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "user%d@acme.co.uk ", i)
	}
	assert.Len(t, ExtractEmails(b.String()), maxEmails)
}

func TestExtractEmails_CaseFolded(t *testing.T) {
	emails := ExtractEmails("Contact John.Smith@Acme.co.uk today")
	assert.Equal(t, []string{"john.smith@acme.co.uk"}, emails)
}

func TestExtractPhones(t *testing.T) {
	html := `<p>Call 020 7946 0958 or +44 161 496 0000.
		Repeated: 020 7946 0958.</p>`

	phones := ExtractPhones(html)
	assert.Contains(t, phones, "020 7946 0958")
	assert.Len(t, phones, 2)
}

func TestExtractPhones_SkipsShortMatches(t *testing.T) {
	assert.Empty(t, ExtractPhones("room 101, page 202"))
}

func TestExtractPhones_Cap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "call 020 7946 09%02d now. ", i)
	}
	assert.Len(t, ExtractPhones(b.String()), maxPhones)
}
