package company

// Enrichment carries the fields an enrichment pass discovered for a company.
// Nil means the pass found nothing for that field.
type Enrichment struct {
	Website      *string
	Phone        *string
	Email        *string
	EmailFormat  *string
	Industry     *string
	AddressLine1 *string
}

// Empty reports whether the pass found nothing at all.
func (e Enrichment) Empty() bool {
	return e.Website == nil && e.Phone == nil && e.Email == nil &&
		e.EmailFormat == nil && e.Industry == nil && e.AddressLine1 == nil
}

// Merge fills the company's null enrichable fields from e and returns the
// names of the fields it changed. Populated fields are never overwritten,
// so merging the same enrichment twice is a no-op the second time.
func Merge(c *CompanyRecord, e Enrichment) []string {
	var updated []string
	if c.Website == nil && e.Website != nil {
		c.Website = e.Website
		updated = append(updated, "website")
	}
	if c.Phone == nil && e.Phone != nil {
		c.Phone = e.Phone
		updated = append(updated, "phone")
	}
	if c.Email == nil && e.Email != nil {
		c.Email = e.Email
		updated = append(updated, "email")
	}
	if c.EmailFormat == nil && e.EmailFormat != nil {
		c.EmailFormat = e.EmailFormat
		updated = append(updated, "email_format")
	}
	if c.Industry == nil && e.Industry != nil {
		c.Industry = e.Industry
		updated = append(updated, "industry")
	}
	if c.AddressLine1 == nil && e.AddressLine1 != nil {
		c.AddressLine1 = e.AddressLine1
		updated = append(updated, "address_line_1")
	}
	return updated
}
