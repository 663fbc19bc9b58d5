package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "LocaleSpot", "LocaleSpot", time.Hour, 24*time.Hour)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := a.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if sub, _ := claims["sub"].(float64); int64(sub) != 42 {
		t.Errorf("sub = %v", claims["sub"])
	}
	if premium, _ := claims["premium"].(bool); !premium {
		t.Error("premium claim not set")
	}

	if _, err := a.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(7, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := a.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := a.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := NewJWTAuthenticator("s1", "s2", "LocaleSpot", "LocaleSpot", -time.Minute, -time.Minute)

	access, _, err := a.GenerateTokens(1, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := a.ValidateAccessToken(access); err == nil {
		t.Error("expired token accepted")
	}
}
