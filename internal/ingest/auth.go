package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
)

// Authenticator obtains a session token from the feed's login endpoint using
// a client code, password, and a fresh TOTP passcode. A zero Authenticator
// (no login URL) means the feed is unauthenticated.
type Authenticator struct {
	LoginURL   string
	ClientCode string
	Password   string
	TOTPSecret string

	HTTPClient *http.Client
}

type loginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

type loginResponse struct {
	Status bool `json:"status"`
	Data   struct {
		JWTToken string `json:"jwtToken"`
	} `json:"data"`
	Message string `json:"message"`
}

// Token generates a fresh passcode and exchanges it for a session token.
// Returns "" with nil error when no login URL is configured.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if a.LoginURL == "" {
		return "", nil
	}

	code, err := totp.GenerateCode(a.TOTPSecret, time.Now())
	if err != nil {
		return "", fmt.Errorf("ingest auth: generate totp: %w", err)
	}

	body, err := json.Marshal(loginRequest{
		ClientCode: a.ClientCode,
		Password:   a.Password,
		TOTP:       code,
	})
	if err != nil {
		return "", fmt.Errorf("ingest auth: marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.LoginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ingest auth: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ingest auth: login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ingest auth: login status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("ingest auth: decode login response: %w", err)
	}
	if !lr.Status || lr.Data.JWTToken == "" {
		return "", fmt.Errorf("ingest auth: login rejected: %s", lr.Message)
	}
	return lr.Data.JWTToken, nil
}
