package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	userID := uuid.New().String()
	email := "test@example.com"

	token, err := GenerateToken(userID, email, RoleContributor)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	extractedUserID, extractedEmail, extractedRole, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if extractedUserID != userID {
		t.Fatalf("expected userID %s, got %s", userID, extractedUserID)
	}
	if extractedEmail != email {
		t.Fatalf("expected email %s, got %s", email, extractedEmail)
	}
	if extractedRole != RoleContributor {
		t.Fatalf("expected role %s, got %s", RoleContributor, extractedRole)
	}
}

func TestGenerateTokenRejectsEmptyUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	if _, err := GenerateToken("", "test@example.com", RoleContributor); err == nil {
		t.Fatalf("expected error for empty userID")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	if _, _, _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
