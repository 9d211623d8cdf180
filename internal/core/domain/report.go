package domain

import "time"

// MemberError records a failure for one member in a batch operation.
type MemberError struct {
	MemberID string `json:"member_id"`
	Error    string `json:"error"`
}

// MemberExpiry lists the expiring credentials of one member.
type MemberExpiry struct {
	MemberID    string       `json:"member_id"`
	Credentials []Credential `json:"credentials"`
}

// ExpiryReport aggregates expiring credentials over a batch of members.
type ExpiryReport struct {
	GeneratedAt         time.Time      `json:"generated_at"`
	DaysAhead           int            `json:"days_ahead"`
	TotalMembers        int            `json:"total_members"`
	MembersChecked      int            `json:"members_checked"`
	MembersWithExpiring int            `json:"members_with_expiring"`
	TotalExpiring       int            `json:"total_expiring"`
	Members             []MemberExpiry `json:"members"`
	TypeBreakdown       map[string]int `json:"type_breakdown"`
	Errors              []MemberError  `json:"errors"`
}

// MemberMemberships lists the active membership types of one member.
type MemberMemberships struct {
	MemberID string   `json:"member_id"`
	Types    []string `json:"types"`
}

// MembershipReport aggregates active membership types over a batch of members.
type MembershipReport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	TotalMembers       int                 `json:"total_members"`
	MembersChecked     int                 `json:"members_checked"`
	WithoutMemberships int                 `json:"without_memberships"`
	Members            []MemberMemberships `json:"members"`
	TypeBreakdown      map[string]int      `json:"type_breakdown"`
	Errors             []MemberError       `json:"errors"`
}
