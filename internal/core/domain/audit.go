package domain

import (
	"encoding/json"
	"time"
)

// Actor is the user performing an admin override.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// AuditEntry records one admin override.
type AuditEntry struct {
	ID            string          `json:"id"`
	Actor         Actor           `json:"actor"`
	Action        string          `json:"action"`
	Target        string          `json:"target"`
	Justification string          `json:"justification"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// OverrideMetadata is attached to the result of an admin override.
type OverrideMetadata struct {
	Actor         Actor     `json:"actor"`
	Action        string    `json:"action"`
	Justification string    `json:"justification"`
	Timestamp     time.Time `json:"timestamp"`
	Before        any       `json:"before,omitempty"`
}

// OverrideResult pairs the wrapped operation's result with override metadata.
type OverrideResult[T any] struct {
	Result   T                `json:"result"`
	Override OverrideMetadata `json:"override"`
}
