package justgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

const (
	endpointMemberSearch      = "Members/FindByAttributes"
	endpointMembers           = "Members"
	endpointCredentialsSearch = "Credentials/FindByAttributes"
)

// envelope is the {"data": ...} wrapper used by every JustGo response.
type envelope[T any] struct {
	Data T `json:"data"`
}

func decodeData[T any](raw json.RawMessage) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		var zero T
		return zero, newError(KindAPI, http.StatusOK, "decode response: "+err.Error())
	}
	return env.Data, nil
}

// FindMemberByMID searches members by MID. An empty slice means no match.
func (c *Client) FindMemberByMID(ctx context.Context, mid string) ([]domain.MemberSummary, error) {
	return c.findMembers(ctx, "MID", mid)
}

// FindMemberByEmail searches members by email. An empty slice means no match.
func (c *Client) FindMemberByEmail(ctx context.Context, email string) ([]domain.MemberSummary, error) {
	return c.findMembers(ctx, "Email", email)
}

func (c *Client) findMembers(ctx context.Context, attribute, value string) ([]domain.MemberSummary, error) {
	if value == "" {
		return nil, fmt.Errorf("find member by %s: %w", attribute, domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodGet, endpointMemberSearch, url.Values{attribute: {value}}, nil)
	if err != nil {
		return nil, err
	}

	members, err := decodeData[[]domain.MemberSummary](raw)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []domain.MemberSummary{}
	}
	return members, nil
}

// GetMemberByMID returns the first search hit for mid, or a not-found error.
func (c *Client) GetMemberByMID(ctx context.Context, mid string) (*domain.MemberSummary, error) {
	members, err := c.FindMemberByMID(ctx, mid)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, newError(KindNotFound, 0, fmt.Sprintf("no member found with MID %s", mid))
	}
	return &members[0], nil
}

// GetMemberByID fetches full member detail by member GUID.
func (c *Client) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	if memberID == "" {
		return nil, fmt.Errorf("get member: %w", domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodGet, endpointMembers+"/"+url.PathEscape(memberID), nil, nil)
	if err != nil {
		return nil, err
	}

	member, err := decodeData[*domain.Member](raw)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, newError(KindNotFound, 0, fmt.Sprintf("member %s not found", memberID))
	}
	return member, nil
}

// GetMemberCredentials fetches every credential held by a member GUID.
func (c *Client) GetMemberCredentials(ctx context.Context, memberID string) ([]domain.Credential, error) {
	if memberID == "" {
		return nil, fmt.Errorf("get credentials: %w", domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodGet, endpointCredentialsSearch, url.Values{"memberId": {memberID}}, nil)
	if err != nil {
		return nil, err
	}

	creds, err := decodeData[[]domain.Credential](raw)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		creds = []domain.Credential{}
	}
	return creds, nil
}
