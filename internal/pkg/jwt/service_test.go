package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHMACService_AccessTokenCarriesRole(t *testing.T) {
	svc := NewHMACService("a", "r", time.Minute, time.Hour)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "ana@example.com", "Manager")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Role != "Manager" || claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if svc.IsRefreshToken(claims) {
		t.Fatalf("access token reported as refresh")
	}
}

func TestHMACService_RefreshToken(t *testing.T) {
	svc := NewHMACService("a", "r", time.Minute, time.Hour)
	tok, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !svc.IsRefreshToken(claims) || claims.Role != "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("a", "r", time.Minute, time.Hour)
	base := time.Now()
	svc.now = func() time.Time { return base.Add(-2 * time.Minute) }
	tok, err := svc.GenerateAccessToken(uuid.New(), "", "Developer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	svc.now = time.Now
	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_Invalid(t *testing.T) {
	svc := NewHMACService("a", "r", time.Minute, time.Hour)
	other := NewHMACService("x", "y", time.Minute, time.Hour)
	tok, _ := other.GenerateAccessToken(uuid.New(), "", "Developer")
	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := NewHMACService("", "r", time.Minute, time.Hour).GenerateAccessToken(uuid.New(), "", ""); err == nil {
		t.Fatalf("expected error without secret")
	}
}
