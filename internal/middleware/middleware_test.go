package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pricecheck/internal/auth"
)

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware())
	router.Use(extra...)
	router.GET("/test", func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return router
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	router := protectedRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	router := protectedRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "InvalidFormat")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := protectedRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid_token_xyz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	token, err := auth.GenerateToken("test-user-id", "test@example.com", auth.RoleContributor)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	router := protectedRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	router := protectedRouter(RequireRole(auth.RoleModerator, auth.RoleAdmin))

	contributorToken, err := auth.GenerateToken("u1", "c@example.com", auth.RoleContributor)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	moderatorToken, err := auth.GenerateToken("u2", "m@example.com", auth.RoleModerator)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+contributorToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d for contributor, got %d", http.StatusForbidden, w.Code)
	}

	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+moderatorToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d for moderator, got %d", http.StatusOK, w.Code)
	}
}
