package justgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

const (
	endpointCandidateSearch = "Events/Candidate/FindByAttributes"
	endpointCandidates      = "Events/Candidates"
)

type candidateStatusRequest struct {
	Status      string `json:"status"`
	IssueAwards bool   `json:"issueAwards"`
}

type addCandidateRequest struct {
	TicketID    string `json:"ticketId"`
	CandidateID string `json:"candidateId"`
}

// FindEventCandidates lists the candidates booked onto an event.
func (c *Client) FindEventCandidates(ctx context.Context, eventID string) ([]domain.EventCandidate, error) {
	if eventID == "" {
		return nil, fmt.Errorf("find event candidates: %w", domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodGet, endpointCandidateSearch, url.Values{"eventID": {eventID}}, nil)
	if err != nil {
		return nil, err
	}

	candidates, err := decodeData[[]domain.EventCandidate](raw)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []domain.EventCandidate{}
	}
	return candidates, nil
}

// UpdateCandidateStatus sets a booking's status, optionally issuing the
// event's awards. Rejected in read-only mode.
func (c *Client) UpdateCandidateStatus(
	ctx context.Context, bookingID, status string, issueAwards bool,
) (*domain.EventCandidate, error) {
	if err := c.checkWritable(ctx, "update candidate status"); err != nil {
		return nil, err
	}
	if bookingID == "" || status == "" {
		return nil, fmt.Errorf("update candidate status: %w", domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodPut, endpointCandidates+"/"+url.PathEscape(bookingID),
		nil, candidateStatusRequest{Status: status, IssueAwards: issueAwards})
	if err != nil {
		return nil, err
	}

	candidate, err := decodeData[*domain.EventCandidate](raw)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		candidate = &domain.EventCandidate{BookingID: domain.ID(bookingID), Status: status}
	}
	return candidate, nil
}

// AddCandidateToEvent books a candidate onto an event with a ticket.
// Rejected in read-only mode.
func (c *Client) AddCandidateToEvent(
	ctx context.Context, eventID, ticketID, candidateID string,
) (*domain.EventCandidate, error) {
	if err := c.checkWritable(ctx, "add candidate to event"); err != nil {
		return nil, err
	}
	if eventID == "" || ticketID == "" || candidateID == "" {
		return nil, fmt.Errorf("add candidate to event: %w", domain.ErrInvalidInput)
	}

	endpoint := "Events/" + url.PathEscape(eventID) + "/Candidates"
	raw, err := c.request(ctx, http.MethodPost, endpoint, nil,
		addCandidateRequest{TicketID: ticketID, CandidateID: candidateID})
	if err != nil {
		return nil, err
	}

	candidate, err := decodeData[*domain.EventCandidate](raw)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		candidate = &domain.EventCandidate{
			EventID:     domain.ID(eventID),
			TicketID:    domain.ID(ticketID),
			CandidateID: domain.ID(candidateID),
		}
	}
	return candidate, nil
}
