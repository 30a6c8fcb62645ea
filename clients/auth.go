// Package clients holds thin clients for external collaborators.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"travel/entity"
)

var ErrUnauthenticated = errors.New("invalid credentials")

// AuthClient verifies bearer tokens against the external auth service. Token
// issuance is out of scope; the engine only consumes the verified principal.
type AuthClient struct {
	addr       string
	httpClient *http.Client
}

func NewAuthClient(addr string) *AuthClient {
	return &AuthClient{
		addr: addr,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *AuthClient) Verify(ctx context.Context, token string) (entity.Principal, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return entity.Principal{}, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/verify", bytes.NewReader(body))
	if err != nil {
		return entity.Principal{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var principal entity.Principal
		if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
			return entity.Principal{}, fmt.Errorf("decoding principal: %w", err)
		}
		return principal, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.Principal{}, ErrUnauthenticated
	default:
		return entity.Principal{}, fmt.Errorf("unexpected auth response: %d", resp.StatusCode)
	}
}
