package token

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	svc := Service{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour}

	now := time.Now().UTC().Truncate(time.Second)
	signed, exp, err := svc.Issue("4b4f0b9a-9f8a-4a15-95d1-0d9c4f1e2a3b", "alice@example.com", "user", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(time.Hour); !exp.Equal(want) {
		t.Fatalf("exp = %v, want %v", exp, want)
	}

	claims, err := svc.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "4b4f0b9a-9f8a-4a15-95d1-0d9c4f1e2a3b" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Role != "user" {
		t.Fatalf("role = %q", claims.Role)
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	svc := Service{TTL: time.Hour}
	if _, _, err := svc.Issue("id", "a@b.c", "user", time.Now()); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	svc := Service{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Minute}

	signed, _, err := svc.Issue("id", "a@b.c", "user", time.Now().Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Parse(signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := Service{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour}
	verifier := Service{Secret: []byte("ffffffffffffffffffffffffffffffff"), TTL: time.Hour}

	signed, _, err := issuer.Issue("id", "a@b.c", "user", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(signed); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	svc := Service{Secret: secret, TTL: time.Hour}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Parse(signed); err == nil {
		t.Fatal("expected non-HS256 token to fail")
	}
}
