// Package extract holds pure functions over member and credential
// payloads that have already been fetched from JustGo.
package extract

import (
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// UnknownType groups credentials without a type.
const UnknownType = "Unknown"

// MembershipStatusActive is the status of a current membership.
const MembershipStatusActive = "Active"

// MemberIDs collects every identifier in a member payload. Missing
// sub-lists and empty ids yield empty collections.
func MemberIDs(member *domain.Member) domain.MemberIdentifiers {
	ids := domain.MemberIdentifiers{
		BookingIDs:    []domain.ID{},
		EventIDs:      []domain.ID{},
		TicketIDs:     []domain.ID{},
		CredentialIDs: []domain.ID{},
		ClubIDs:       []domain.ID{},
		MembershipIDs: []domain.ID{},
	}
	if member == nil {
		return ids
	}

	ids.MemberID = member.MemberID
	ids.MemberDocID = member.MemberDocID
	ids.MID = member.MID
	ids.CandidateID = member.CandidateID

	for _, b := range member.Bookings {
		ids.BookingIDs = appendID(ids.BookingIDs, b.BookingID)
		ids.EventIDs = appendID(ids.EventIDs, b.EventID)
		ids.TicketIDs = appendID(ids.TicketIDs, b.TicketID)
	}
	for _, a := range member.Awards {
		ids.CredentialIDs = appendID(ids.CredentialIDs, a.CredentialID)
	}
	for _, c := range member.Clubs {
		ids.ClubIDs = appendID(ids.ClubIDs, c.ClubID)
	}
	for _, m := range member.Memberships {
		ids.MembershipIDs = appendID(ids.MembershipIDs, m.MembershipID)
	}
	return ids
}

func appendID(ids []domain.ID, id domain.ID) []domain.ID {
	if id.IsZero() {
		return ids
	}
	return append(ids, id)
}

// ActiveCredentials returns the credentials whose status is exactly "Active".
func ActiveCredentials(creds []domain.Credential) []domain.Credential {
	return filter(creds, domain.Credential.IsActive)
}

// ExpiredCredentials returns the credentials whose status is exactly "Expired".
func ExpiredCredentials(creds []domain.Credential) []domain.Credential {
	return filter(creds, domain.Credential.IsExpired)
}

func filter(creds []domain.Credential, keep func(domain.Credential) bool) []domain.Credential {
	out := []domain.Credential{}
	for _, c := range creds {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// GroupByType groups credentials by type, using UnknownType when absent.
func GroupByType(creds []domain.Credential) map[string][]domain.Credential {
	groups := make(map[string][]domain.Credential)
	for _, c := range creds {
		t := c.Type
		if t == "" {
			t = UnknownType
		}
		groups[t] = append(groups[t], c)
	}
	return groups
}

// ExpiringCredentials returns the active credentials whose expiry date is
// on or before now plus daysAhead, including dates already past.
// Credentials with an unparseable expiry are skipped.
func ExpiringCredentials(creds []domain.Credential, daysAhead int, now time.Time) []domain.Credential {
	cutoff := Today(now).AddDate(0, 0, daysAhead)

	out := []domain.Credential{}
	for _, c := range creds {
		if !c.IsActive() {
			continue
		}
		expiry, err := c.Expiry()
		if err != nil {
			logger.Warn("extract: skipping credential %s (%s): unparseable expiry date %q",
				c.ID, c.Name, c.ExpiryDate)
			continue
		}
		if !expiry.After(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// Today truncates now to midnight UTC of its calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ActiveMemberships returns the memberships whose status is "Active".
func ActiveMemberships(member *domain.Member) []domain.Membership {
	out := []domain.Membership{}
	if member == nil {
		return out
	}
	for _, m := range member.Memberships {
		if m.Status == MembershipStatusActive {
			out = append(out, m)
		}
	}
	return out
}

// MembershipTypes returns the distinct types of the member's active
// memberships in payload order.
func MembershipTypes(member *domain.Member) []string {
	seen := make(map[string]bool)
	types := []string{}
	for _, m := range ActiveMemberships(member) {
		if m.MembershipType == "" || seen[m.MembershipType] {
			continue
		}
		seen[m.MembershipType] = true
		types = append(types, m.MembershipType)
	}
	return types
}
