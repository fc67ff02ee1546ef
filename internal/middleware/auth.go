package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/logger"
	"github.com/devmonks/metrdotel/pkg/metrics"
	"github.com/devmonks/metrdotel/pkg/response"
)

const (
	// AuthorizationHeader carries the bearer credential.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is stripped exactly, trailing space included.
	BearerPrefix = "Bearer "

	// CtxIdentityKey stores the verified identity on the gin context.
	CtxIdentityKey = "authIdentity"
)

// Authenticate extracts and verifies a bearer token once per request.
// A missing or empty credential leaves the request anonymous, and a failed
// verification is logged and swallowed; in both cases the request continues
// so that public routes stay reachable. Rejecting unauthenticated access to
// protected routes is RequireAuth's job.
func Authenticate(tokens *iauth.TokenService, verifier *iauth.Verifier) gin.HandlerFunc {
	log := logger.WithModule("auth")

	return func(c *gin.Context) {
		decoded, err := tokens.Decode(bearerText(c.GetHeader(AuthorizationHeader)))
		if err != nil {
			metrics.TokenVerifications.WithLabelValues("rejected").Inc()
			log.Warn("bearer token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}
		if decoded == nil {
			metrics.TokenVerifications.WithLabelValues("anonymous").Inc()
			c.Next()
			return
		}

		identity, err := verifier.Verify(iauth.BearerCredential{Token: decoded})
		if err != nil {
			metrics.TokenVerifications.WithLabelValues("rejected").Inc()
			log.Warn("bearer token verification failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}

		metrics.TokenVerifications.WithLabelValues("accepted").Inc()
		c.Set(CtxIdentityKey, identity)
		c.Request = c.Request.WithContext(iauth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Authenticate attached a live identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := iauth.IdentityFrom(c.Request.Context())
		if !ok || !identity.IsAuthenticated(time.Now()) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// bearerText strips the bearer prefix from the header value. Absent, empty,
// or unprefixed headers mean "no credential supplied".
func bearerText(header string) string {
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(BearerPrefix):])
}
