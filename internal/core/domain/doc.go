// Package domain defines the core entities of the JustGo bridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Member, MemberSummary: JustGo member records
//   - Credential: a certification or clearance held by a member
//   - MemberIdentifiers: every id extracted from a member payload
//   - ValidationResult, MembershipValidation: role eligibility outcomes
//   - SyncResult: the outcome of one sync between JustGo and local users
//   - AccessToken: a bearer token with buffered expiry
//   - WriteMode: the write-safety gate carried through context
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
