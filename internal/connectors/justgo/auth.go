package justgo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// defaultTokenLifetime applies when the Auth response omits expiresIn.
const defaultTokenLifetime = time.Hour

type authRequest struct {
	Secret string `json:"secret"`
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	TokenType   string `json:"tokenType"`
}

// Authenticate posts the secret to the Auth endpoint and stores the
// returned token on the client and in the shared token store.
//
// The Auth call bypasses the request loop: it is not rate limited, not
// retried and not counted.
func (c *Client) Authenticate(ctx context.Context) (*domain.AccessToken, error) {
	if c.cfg.Secret == "" {
		return nil, authError(0, "No API secret provided")
	}

	payload, err := json.Marshal(authRequest{Secret: c.cfg.Secret})
	if err != nil {
		return nil, authError(0, "encode auth request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.endpointURL("Auth", nil), bytes.NewReader(payload))
	if err != nil {
		return nil, authError(0, "create auth request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("justgo: authenticating against %s", c.cfg.BaseURL)

	resp, err := c.auth.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindConnection, StatusCode: resp.StatusCode, Message: "read auth response", Err: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		e := authError(resp.StatusCode, "authentication rejected: "+errorMessage(body, resp.StatusCode))
		e.Body = truncate(body)
		return nil, e
	}

	parsed, err := parseAuthResponse(body)
	if err != nil {
		e := authError(resp.StatusCode, "invalid auth response")
		e.Body = truncate(body)
		return nil, e
	}
	if parsed.AccessToken == "" {
		return nil, authError(resp.StatusCode, "No access token in response")
	}

	lifetime := tokenLifetime(parsed.ExpiresIn)
	tokenType := parsed.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	token := domain.AccessToken{
		Token:     parsed.AccessToken,
		TokenType: tokenType,
		ExpiresAt: c.now().Add(lifetime),
	}

	c.setToken(&token)
	if c.store != nil {
		if err := c.store.Set(ctx, TokenCacheKey, token, lifetime); err != nil {
			logger.Warn("justgo: could not cache access token: %v", err)
		}
	}

	logger.Info("justgo: authenticated, token %s valid until %s",
		logger.Redact(token.Token), token.ExpiresAt.Format(time.RFC3339))
	return &token, nil
}

// EnsureAuthenticated is a no-op while the client holds a valid token.
// Otherwise it adopts a valid token from the shared store, and only then
// authenticates.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if c.IsAuthenticated() {
		return nil
	}

	if c.store != nil {
		cached, ok, err := c.store.Get(ctx, TokenCacheKey)
		switch {
		case err != nil:
			logger.Warn("justgo: token store lookup failed: %v", err)
		case ok && cached.Valid(c.now()):
			logger.Debug("justgo: using shared access token")
			c.setToken(cached)
			return nil
		}
	}

	_, err := c.Authenticate(ctx)
	return err
}

// IsAuthenticated reports whether the client holds a token that has not
// passed its buffered expiry.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token.Valid(c.now())
}

// Token returns a copy of the current token, if any.
func (c *Client) Token() (domain.AccessToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil || c.token.Token == "" {
		return domain.AccessToken{}, false
	}
	return *c.token, true
}

func (c *Client) setToken(token *domain.AccessToken) {
	copied := *token
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = &copied
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}

// parseAuthResponse accepts the token fields at the top level or inside
// a data envelope.
func parseAuthResponse(body []byte) (authResponse, error) {
	var flat authResponse
	if err := json.Unmarshal(body, &flat); err != nil {
		return authResponse{}, err
	}
	if flat.AccessToken != "" {
		return flat, nil
	}

	var wrapped struct {
		Data authResponse `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return flat, nil
	}
	return wrapped.Data, nil
}

// tokenLifetime is expiresIn minus the safety buffer. Lifetimes shorter
// than the buffer are halved instead so the token is still usable.
func tokenLifetime(expiresIn int) time.Duration {
	total := defaultTokenLifetime
	if expiresIn > 0 {
		total = time.Duration(expiresIn) * time.Second
	}
	if total > TokenExpiryBuffer {
		return total - TokenExpiryBuffer
	}
	return total / 2
}
