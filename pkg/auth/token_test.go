package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "storefront", ExpirationMinutes: 30}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	sellerID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{SellerID: sellerID, SellerName: "Shop"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.SellerID != sellerID || claims.SellerName != "Shop" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Issuer != cfg.Issuer || claims.Subject != sellerID.String() {
		t.Fatalf("registered claims not set: %+v", claims.RegisteredClaims)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", got)
	}
}

func TestParseRejectsWrongSecretAndExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{SellerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Secret = "other"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature error")
	}

	expired, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{SellerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint expired: %v", err)
	}
	if _, err := ParseAccessToken(cfg, expired); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestMintValidatesConfig(t *testing.T) {
	if _, err := MintAccessToken(config.JWTConfig{}, time.Now(), AccessTokenPayload{SellerID: uuid.New()}); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing seller error")
	}
}
