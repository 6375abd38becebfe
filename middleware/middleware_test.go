package middleware

import (
	"testing"
	"time"

	"sambok/globals"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := Claims{
		Username: "sokha",
		UserID:   "user-1",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestValidateJWTAcceptsBearerToken(t *testing.T) {
	claims, err := ValidateJWT("Bearer " + signedToken(t))
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
}

func TestValidateJWTRequiresBearerPrefix(t *testing.T) {
	// a bare token must be rejected up front, not sliced blind and fed to
	// the parser as garbage
	if _, err := ValidateJWT(signedToken(t)); err == nil {
		t.Fatal("expected error for token without Bearer prefix")
	}
	if _, err := ValidateJWT(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := ValidateJWT("Basic dXNlcjpwYXNz"); err == nil {
		t.Fatal("expected error for non-Bearer scheme")
	}
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	token := signedToken(t)
	tampered := token + "xx"
	if _, err := ValidateJWT("Bearer " + tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}
