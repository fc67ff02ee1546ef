package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/pkg/response"
)

func newAuthTestRouter(t *testing.T, clock func() time.Time) (*gin.Engine, *iauth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "test-secret", Clock: clock})
	require.NoError(t, err)

	r := gin.New()
	r.Use(Authenticate(tokens, iauth.NewVerifier(clock)))

	r.GET("/public", func(c *gin.Context) {
		_, ok := iauth.IdentityFrom(c.Request.Context())
		response.Success(c, http.StatusOK, gin.H{"authenticated": ok})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		identity, _ := iauth.IdentityFrom(c.Request.Context())
		response.Success(c, http.StatusOK, gin.H{"subject": identity.Subject})
	})

	return r, tokens
}

func TestMissingHeaderProceedsAnonymous(t *testing.T) {
	r, _ := newAuthTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestUnprefixedHeaderProceedsAnonymous(t *testing.T) {
	r, _ := newAuthTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestValidTokenAttachesIdentity(t *testing.T) {
	r, tokens := newAuthTestRouter(t, nil)

	token, err := tokens.Issue(iauth.IssueInput{Subject: "a@b.com", Roles: []string{"USER"}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "a@b.com")
}

func TestInvalidTokenDoesNotAbortPublicRoute(t *testing.T) {
	r, _ := newAuthTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"garbage")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestExpiredTokenRejectedOnProtectedRoute(t *testing.T) {
	current := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	r, tokens := newAuthTestRouter(t, func() time.Time { return current })

	token, err := tokens.Issue(iauth.IssueInput{Subject: "a@b.com"})
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
