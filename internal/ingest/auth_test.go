package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Base32 secret accepted by the TOTP generator in tests.
const testTOTPSecret = "JBSWY3DPEHPK3PXP"

func TestAuthenticatorToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad login body: %v", err)
		}
		if req.ClientCode != "C123" || req.Password != "pw" {
			t.Errorf("credentials = %+v", req)
		}
		if len(req.TOTP) != 6 {
			t.Errorf("totp = %q, want 6 digits", req.TOTP)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"jwtToken": "jwt-abc"},
		})
	}))
	defer srv.Close()

	a := &Authenticator{
		LoginURL:   srv.URL,
		ClientCode: "C123",
		Password:   "pw",
		TOTPSecret: testTOTPSecret,
	}
	token, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("token = %q", token)
	}
}

func TestAuthenticatorToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "invalid totp"})
	}))
	defer srv.Close()

	a := &Authenticator{LoginURL: srv.URL, TOTPSecret: testTOTPSecret}
	if _, err := a.Token(context.Background()); err == nil {
		t.Error("rejected login must return an error")
	}
}

func TestAuthenticatorToken_Unauthenticated(t *testing.T) {
	a := &Authenticator{}
	token, err := a.Token(context.Background())
	if err != nil || token != "" {
		t.Errorf("Token = %q, %v; want empty, nil", token, err)
	}
}
