// Package auth gates write procedures behind a session token.
//
// Sessions are issued elsewhere. The server only holds the configured
// token -> user id table and checks bearer tokens against it.
package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/middleware"
)

const identityKey = "auth.identity"

// Identity is the user a session belongs to.
type Identity struct {
	UserID string
}

type Authenticator struct {
	tokens map[string]string
	log    *zap.Logger
}

func NewAuthenticator(tokens map[string]string, log *zap.Logger) *Authenticator {
	copied := make(map[string]string, len(tokens))
	for token, user := range tokens {
		copied[token] = user
	}
	return &Authenticator{tokens: copied, log: log}
}

// Authenticate resolves an Authorization header value to an Identity.
func (a *Authenticator) Authenticate(header string) (Identity, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return Identity{}, apperrors.Unauthorized("Missing bearer token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperrors.Unauthorized("Missing bearer token")
	}

	// Compare against every entry so timing does not reveal a prefix match.
	var user string
	for known, id := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			user = id
		}
	}
	if user == "" {
		return Identity{}, apperrors.Unauthorized("Invalid session")
	}
	return Identity{UserID: user}, nil
}

// RequireSession rejects requests without a valid session before the
// handler runs.
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			a.log.Debug("Rejected unauthenticated request",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", middleware.GetRequestID(c)))
			middleware.AbortWithError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireSession.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
