package justgo

import (
	"errors"

	"golang.org/x/oauth2"
)

var errNoToken = errors.New("justgo: no access token")

// tokenSource adapts the client's token state to oauth2.TokenSource so
// that oauth2.Transport sets the bearer header on every request.
//
// Expiry is tracked by the client, not by oauth2: the returned token has
// no expiry and the request loop re-authenticates before and on 401.
type tokenSource struct {
	client *Client
}

// Token implements oauth2.TokenSource.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	token, ok := s.client.Token()
	if !ok {
		return nil, errNoToken
	}
	return &oauth2.Token{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
	}, nil
}
