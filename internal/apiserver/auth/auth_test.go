package auth

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	cfg := DefaultConfig("test-secret")

	token, err := SignPayload(cfg, map[string]any{"email": "a@b.com", "name": "Alice"})
	if err != nil {
		t.Fatalf("SignPayload: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if ClaimEmail(claims) != "a@b.com" {
		t.Errorf("email = %q, want a@b.com", ClaimEmail(claims))
	}
	if claims["name"] != "Alice" {
		t.Errorf("name = %v, want Alice", claims["name"])
	}

	// exp 由服务端设置，约等于 TTL
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("GetExpirationTime: %v", err)
	}
	ttl := time.Until(exp.Time)
	if ttl < DefaultTokenTTL-time.Minute || ttl > DefaultTokenTTL {
		t.Errorf("ttl = %v, want ~%v", ttl, DefaultTokenTTL)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := SignPayload(DefaultConfig("right-secret"), map[string]any{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("SignPayload: %v", err)
	}

	if _, err := ParseToken(DefaultConfig("wrong-secret"), token); err == nil {
		t.Error("expected signature error, got nil")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := Config{Secret: "test-secret", TokenTTL: -time.Hour}

	token, err := SignPayload(cfg, map[string]any{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("SignPayload: %v", err)
	}

	if _, err := ParseToken(DefaultConfig("test-secret"), token); err == nil {
		t.Error("expected expiry error, got nil")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseToken(DefaultConfig("test-secret"), "not.a.token"); err == nil {
		t.Error("expected parse error, got nil")
	}
}
