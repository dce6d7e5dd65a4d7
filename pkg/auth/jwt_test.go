package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("unit-test-signing-secret", "medscribe", "medscribe-api", time.Hour)
	if err != nil {
		t.Fatalf("manager setup failed: %v", err)
	}
	return manager
}

func TestIssueAndValidateToken(t *testing.T) {
	manager := testManager(t)
	prov := models.Provider{ID: uuid.New(), Email: "dr@example.com", Name: "Dr. Smith"}

	token, err := manager.IssueToken(prov)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.ProviderID != prov.ID {
		t.Fatalf("provider id %s, want %s", claims.ProviderID, prov.ID)
	}
	if claims.Email != prov.Email || claims.Name != prov.Name {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	manager := testManager(t)
	token, err := manager.IssueToken(models.Provider{ID: uuid.New(), Email: "dr@example.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := manager.ValidateToken(context.Background(), tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := testManager(t)
	other, err := NewJWTManager("a-different-signing-secret", "medscribe", "medscribe-api", time.Hour)
	if err != nil {
		t.Fatalf("manager setup failed: %v", err)
	}

	token, err := other.IssueToken(models.Provider{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected cross-secret token to be rejected")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := testManager(t)
	manager.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := manager.IssueToken(models.Provider{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	manager.nowFunc = time.Now
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "iss", "aud", time.Hour); err == nil {
		t.Fatal("expected short secret to be rejected")
	}
}
