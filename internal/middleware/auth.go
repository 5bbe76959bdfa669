package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Varun5711/devcamper/internal/logger"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// TokenCookieName is the cookie the API sets on login and clears on logout.
const TokenCookieName = "token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*usermodel.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
	log  *logger.Logger
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
		log:  logger.New("auth-middleware"),
	}
}

// Protect requires a valid session token, taken from the Authorization bearer
// header or, failing that, the token cookie.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		user, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			if service.ErrorCode(err) == service.CodeUnauthenticated {
				m.log.Debug("Rejected token: %v", err)
				writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			m.log.Error("Failed to authenticate request: %v", err)
			writeError(w, http.StatusInternalServerError, "Server Error")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize must run after Protect. It admits only the listed roles.
func Authorize(roles ...usermodel.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
		})
	}
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "none" {
		return cookie.Value
	}

	return ""
}

func GetUser(ctx context.Context) *usermodel.User {
	if user, ok := ctx.Value(userKey).(*usermodel.User); ok {
		return user
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return ""
}

// WithUser returns a copy of ctx carrying user, as Protect would.
func WithUser(ctx context.Context, user *usermodel.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
