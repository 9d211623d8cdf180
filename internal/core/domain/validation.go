package domain

import "time"

// ValidationStatus is the overall outcome of a role check.
type ValidationStatus string

const (
	// ValidationPass means every requirement was met.
	ValidationPass ValidationStatus = "pass"
	// ValidationFail means at least one requirement was not met.
	ValidationFail ValidationStatus = "fail"
	// ValidationError means the check could not be completed.
	ValidationError ValidationStatus = "error"
)

// RoleRequirements describes what a volunteer role demands of a member.
type RoleRequirements struct {
	// RequiredCredentials are matched case-insensitively as substrings of
	// active credential names. The first match wins.
	RequiredCredentials []string `json:"required_credentials"`
	// MinimumAge is ignored when zero.
	MinimumAge int `json:"minimum_age"`
	// ValidUntil is the last day of the role. Active credentials expiring
	// on or before it produce warnings. Ignored when zero.
	ValidUntil time.Time `json:"valid_until"`
}

// CredentialSummary counts the credentials seen during a check.
type CredentialSummary struct {
	Total        int               `json:"total"`
	Active       int               `json:"active"`
	Expired      int               `json:"expired"`
	ExpiringSoon int               `json:"expiring_soon"`
	Matched      map[string]string `json:"matched,omitempty"`
}

// ValidationResult is the outcome of validating a member against a role.
// It is built once per call and never mutated after it is returned.
type ValidationResult struct {
	MemberID           string            `json:"member_id"`
	OverallStatus      ValidationStatus  `json:"overall_status"`
	RequirementsMet    []string          `json:"requirements_met"`
	RequirementsFailed []string          `json:"requirements_failed"`
	Warnings           []string          `json:"warnings"`
	Credentials        CredentialSummary `json:"credential_summary"`
	Age                *int              `json:"age,omitempty"`
	Error              string            `json:"error,omitempty"`
	CheckedAt          time.Time         `json:"checked_at"`
}

// Passed reports whether the overall status is pass.
func (r *ValidationResult) Passed() bool {
	return r != nil && r.OverallStatus == ValidationPass
}
