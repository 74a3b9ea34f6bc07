package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	tokens, err := NewTokens("secret", "dev", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	token, _, err := tokens.Issue(42, "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("expected user 42, got %d (%v)", id, err)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tokens, _ := NewTokens("secret", "dev", time.Hour)
	token, _, _ := tokens.Issue(1, "")
	other, _ := NewTokens("other", "dev", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := tokens.Verify(strings.TrimSuffix(token, token[len(token)-2:])); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for truncated signature, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens, _ := NewTokens("secret", "dev", time.Minute)
	issuedAt := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }
	token, _, _ := tokens.Issue(1, "")

	tokens.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestNewTokensRequiresSecretInProd(t *testing.T) {
	if _, err := NewTokens("", "production", 0); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewTokens("", "dev", 0); err != nil {
		t.Fatalf("dev should fall back to a development secret: %v", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tokens, _ := NewTokens("secret", "dev", time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	for name, token := range map[string]string{"hs512": hs512, "none": unsigned} {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	tokens, _ := NewTokens("secret", "dev", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestIssueSetsExpiry(t *testing.T) {
	tokens, _ := NewTokens("secret", "dev", time.Hour)
	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }
	_, claims, err := tokens.Issue(3, "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := claims.ExpiresAtTime(); !got.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", got)
	}
}
