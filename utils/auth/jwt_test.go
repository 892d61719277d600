package auth

import (
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-for-unit-tests",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "campusflow-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, jti, err := m.GenerateAccessToken(42, "student@campus.edu", "student", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("got UserID %d, want 42", claims.UserID)
	}
	if claims.Email != "student@campus.edu" {
		t.Errorf("got Email %q", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("got Role %q", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("got TokenType %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("got TokenVersion %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Error("claims JTI does not match the generated JTI")
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := testManager()

	token, _, err := m.GenerateRefreshToken(7, "a@b.c", "organizer", 0)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("got TokenType %q, want refresh", claims.TokenType)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(JWTConfig{
		Secret:        "a-different-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "campusflow-test",
	})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "student", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := testManager()
	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager()

	refresh, _, err := m.GenerateRefreshToken(9, "x@y.z", "student", 1)
	if err != nil {
		t.Fatal(err)
	}

	access, _, err := m.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}

	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "access" {
		t.Errorf("got TokenType %q, want access", claims.TokenType)
	}
	if claims.UserID != 9 {
		t.Errorf("got UserID %d, want 9", claims.UserID)
	}
}

func TestRefreshAccessTokenRejectsAccessToken(t *testing.T) {
	m := testManager()

	access, _, err := m.GenerateAccessToken(9, "x@y.z", "student", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.RefreshAccessToken(access, 0); err == nil {
		t.Error("an access token was accepted as a refresh token")
	}
}
