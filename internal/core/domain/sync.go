package domain

import "time"

// SyncStatus is the outcome of a sync operation.
type SyncStatus string

const (
	SyncSuccess  SyncStatus = "success"
	SyncNotFound SyncStatus = "not_found"
	SyncError    SyncStatus = "error"
)

// SyncAction is what a successful sync did.
type SyncAction string

const (
	SyncCreated SyncAction = "created"
	SyncUpdated SyncAction = "updated"
	SyncLinked  SyncAction = "linked"
)

// SyncResult is returned by every sync operation.
// The caller is responsible for persisting it.
type SyncResult struct {
	Status      SyncStatus `json:"status"`
	Action      SyncAction `json:"action,omitempty"`
	MID         string     `json:"mid,omitempty"`
	MemberID    string     `json:"member_id,omitempty"`
	MemberDocID string     `json:"member_doc_id,omitempty"`
	LocalUserID string     `json:"local_user_id,omitempty"`
	Message     string     `json:"message,omitempty"`
	Error       string     `json:"error,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}
