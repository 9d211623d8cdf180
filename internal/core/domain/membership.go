package domain

import "time"

// MembershipRules are three independent rule sets applied to a
// member's active membership types.
type MembershipRules struct {
	// Required types must all be present.
	Required []string `json:"required_types"`
	// Allowed, when set, must contain every type the member holds.
	Allowed []string `json:"allowed_types"`
	// Excluded types must not be held at all.
	Excluded []string `json:"excluded_types"`
}

// Membership rule names used in RuleCheck.
const (
	RuleActiveMembership = "active_membership"
	RuleRequiredTypes    = "required_types"
	RuleAllowedTypes     = "allowed_types"
	RuleExcludedTypes    = "excluded_types"
)

// RuleCheck is the outcome of one membership rule.
type RuleCheck struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// MembershipValidation is the outcome of validating membership types for a role.
type MembershipValidation struct {
	MemberID      string           `json:"member_id"`
	OverallStatus ValidationStatus `json:"overall_status"`
	MemberTypes   []string         `json:"member_types"`
	Checks        []RuleCheck      `json:"checks"`
	Error         string           `json:"error,omitempty"`
	CheckedAt     time.Time        `json:"checked_at"`
}
