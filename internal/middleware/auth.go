package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/jwt"
)

// AuthUser is what a validated session resolves to.
type AuthUser struct {
	Id       domain.UserId
	Username domain.Username
}

type ctxKey int

const userKey ctxKey = 0

// Auth holds dependencies for the session middleware.
type Auth struct {
	jwtService jwt.JwtService
	log        *slog.Logger
}

func NewAuth(jwtService jwt.JwtService, log *slog.Logger) *Auth {
	return &Auth{jwtService: jwtService, log: log}
}

// NeedAuth rejects requests that do not carry a valid session token, and puts
// the resolved user into the request context.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed there by NeedAuth.
func UserFromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(userKey).(*AuthUser)
	return user, ok
}

func (a *Auth) extractUser(r *http.Request) (*AuthUser, error) {
	// Cookie for browser clients, Authorization header for API clients.
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, http.ErrNoCookie
	}

	uid, username, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		a.log.Debug("session token rejected", "error", err)
		return nil, err
	}
	return &AuthUser{Id: uid, Username: username}, nil
}
