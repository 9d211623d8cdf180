package domain

import "time"

// Credential statuses recognised by the extractor. Other statuses
// (Pending, Suspended, Revoked) are neither active nor expired.
const (
	CredentialStatusActive  = "Active"
	CredentialStatusExpired = "Expired"
)

// CredentialDateLayout is the layout of credential expiry dates.
const CredentialDateLayout = "2006-01-02"

// Credential is a certification or clearance record held by a member.
type Credential struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	ExpiryDate string `json:"expiryDate"`
	IssueDate  string `json:"issueDate,omitempty"`
}

// IsActive reports whether the credential status is exactly "Active".
func (c Credential) IsActive() bool {
	return c.Status == CredentialStatusActive
}

// IsExpired reports whether the credential status is exactly "Expired".
func (c Credential) IsExpired() bool {
	return c.Status == CredentialStatusExpired
}

// Expiry parses the expiry date. Timestamps with a time part are
// truncated to their date.
func (c Credential) Expiry() (time.Time, error) {
	return ParseDate(c.ExpiryDate)
}

// ParseDate parses a YYYY-MM-DD date, tolerating a trailing time part.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(CredentialDateLayout) {
		s = s[:len(CredentialDateLayout)]
	}
	return time.Parse(CredentialDateLayout, s)
}
