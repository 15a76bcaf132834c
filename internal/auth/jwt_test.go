package auth

import (
	"testing"
	"time"

	"github.com/Intellimint/SalesCaller/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		JWTIssuer:       "salescaller",
		JWTAudience:     "salescaller-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	pair, err := m.IssuePair(now, "op-1", "operator")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	claims, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "op-1" {
		t.Fatalf("UserID = %q, want op-1", claims.UserID)
	}
	if claims.Role != "operator" {
		t.Fatalf("Role = %q, want operator", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("TokenType = %q, want access", claims.TokenType)
	}
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	pair, err := m.IssuePair(now, "op-1", "admin")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	claims, err := m.Verify(pair.RefreshToken, TokenTypeRefresh, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify refresh: %v", err)
	}
	if claims.Role != "" {
		t.Fatalf("refresh token Role = %q, want empty", claims.Role)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	pair, err := m.IssuePair(now, "op-1", "operator")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := m.Verify(pair.RefreshToken, TokenTypeAccess, now.Add(time.Minute)); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	pair, err := m.IssuePair(now, "op-1", "operator")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	// Past the access TTL plus the 30s leeway.
	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(16*time.Minute)); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)
	other.secret = []byte("other-secret")
	now := time.Now()

	pair, err := other.IssuePair(now, "op-1", "operator")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(time.Minute)); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}
