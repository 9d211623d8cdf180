package domain

// MemberStatusRegistered is the JustGo member status of a fully registered member.
const MemberStatusRegistered = "Registered"

// MemberSummary is a single hit from a member attribute search.
type MemberSummary struct {
	MemberID     ID     `json:"memberId"`
	MemberDocID  ID     `json:"memberDocId"`
	MID          ID     `json:"mid"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	MemberStatus string `json:"memberStatus"`
}

// Member is the full member detail record returned by JustGo.
type Member struct {
	MemberID     ID     `json:"memberId"`
	MemberDocID  ID     `json:"memberDocId"`
	MID          ID     `json:"mid"`
	CandidateID  ID     `json:"candidateId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	DateOfBirth  string `json:"dateOfBirth"`
	Gender       string `json:"gender"`
	MobileNumber string `json:"mobileNumber"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	Town         string `json:"town"`
	County       string `json:"county"`
	PostCode     string `json:"postCode"`
	Country      string `json:"country"`
	MemberStatus string `json:"memberStatus"`

	Bookings    []Booking    `json:"bookings"`
	Awards      []Award      `json:"awards"`
	Clubs       []Club       `json:"clubs"`
	Memberships []Membership `json:"memberships"`
}

// Booking is an event booking held by a member.
type Booking struct {
	BookingID ID     `json:"bookingId"`
	EventID   ID     `json:"eventId"`
	TicketID  ID     `json:"ticketId"`
	Status    string `json:"status"`
}

// Award is a credential award attached to a member record.
type Award struct {
	CredentialID ID     `json:"credentialId"`
	Name         string `json:"name"`
}

// Club is a club affiliation.
type Club struct {
	ClubID ID     `json:"clubId"`
	Name   string `json:"name"`
}

// Membership is a membership product held by a member.
type Membership struct {
	MembershipID   ID     `json:"membershipId"`
	MembershipType string `json:"membershipType"`
	Status         string `json:"status"`
	ExpiryDate     string `json:"expiryDate"`
}

// MemberIdentifiers bundles every identifier extracted from one member payload.
// Collections keep payload order; the order carries no meaning.
type MemberIdentifiers struct {
	MemberID      ID   `json:"member_id"`
	MemberDocID   ID   `json:"member_doc_id"`
	MID           ID   `json:"mid"`
	CandidateID   ID   `json:"candidate_id"`
	BookingIDs    []ID `json:"booking_ids"`
	EventIDs      []ID `json:"event_ids"`
	TicketIDs     []ID `json:"ticket_ids"`
	CredentialIDs []ID `json:"credential_ids"`
	ClubIDs       []ID `json:"club_ids"`
	MembershipIDs []ID `json:"membership_ids"`
}

// MemberJourney is the composite fetch for one member:
// search, detail, credentials and extracted identifiers.
type MemberJourney struct {
	Search      []MemberSummary   `json:"search"`
	Member      *Member           `json:"member"`
	Credentials []Credential      `json:"credentials"`
	Identifiers MemberIdentifiers `json:"identifiers"`
}

// EventCandidate is a member booked onto an event.
type EventCandidate struct {
	BookingID   ID     `json:"bookingId"`
	CandidateID ID     `json:"candidateId"`
	MemberID    ID     `json:"memberId"`
	TicketID    ID     `json:"ticketId"`
	EventID     ID     `json:"eventId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Status      string `json:"status"`
}
