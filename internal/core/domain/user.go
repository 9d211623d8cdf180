package domain

import "time"

// LocalUser is a user record owned by the local application.
type LocalUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`

	// JustGo linkage. Empty until the user is synced or linked.
	JustGoMemberID    string    `json:"justgo_member_id"`
	JustGoMemberDocID string    `json:"justgo_member_doc_id"`
	JustGoMID         string    `json:"justgo_mid"`
	JustGoSyncedAt    time.Time `json:"justgo_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLinked reports whether the user carries a JustGo member id.
func (u *LocalUser) IsLinked() bool {
	return u != nil && u.JustGoMemberID != ""
}

// LocalUserFields are the fields a JustGo pull writes onto a local user.
type LocalUserFields struct {
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth string
	IsActive    bool
}

// JustGoLink is the linkage stamped onto a local user after a sync.
type JustGoLink struct {
	MemberID    string
	MemberDocID string
	MID         string
	SyncedAt    time.Time
}
