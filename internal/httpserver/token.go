// internal/httpserver/token.go
//
// Player sessions.
// A session is a random UUID carried in an HS256 JWT (sub = session id).
// The token travels in the session cookie or an Authorization: Bearer
// header; rounds are keyed by the session id it carries.
//
// Tokens slide: once less than half of SESSION_TTL remains, withSession
// re-signs the same id, sets a fresh cookie and returns the new token in
// the X-Session-Token header, so an active player never hits the expiry.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

// refreshHeader carries a re-signed token for bearer clients.
const refreshHeader = "X-Session-Token"

// ctxSessionKey is the context key type for the session id.
type ctxSessionKey struct{}

// sessionFrom returns the session id attached by withSession.
func sessionFrom(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	return id, id != ""
}

// withSession decorates requests with the session id if a valid token is
// present. It never rejects; handlers decide whether a session is required.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if id, exp, ok := s.parseSession(tok); ok {
				if time.Until(exp) < s.cfg.SessionTTL/2 {
					s.refreshSession(w, r, id)
				}
				r = r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// refreshSession re-signs id for a full TTL. A signing failure keeps the
// current token, which is still valid.
func (s *Server) refreshSession(w http.ResponseWriter, r *http.Request, id string) {
	token, exp, err := s.signSession(id, time.Now().Add(s.cfg.SessionTTL))
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("refresh session")
		return
	}
	s.setSessionCookie(w, token, exp)
	w.Header().Set(refreshHeader, token)
}

// issueSession creates a new session id and its signed token.
func (s *Server) issueSession() (id, token string, exp time.Time, err error) {
	id = uuid.NewString()
	token, exp, err = s.signSession(id, time.Now().Add(s.cfg.SessionTTL))
	return id, token, exp, err
}

// signSession signs a token for id that expires at exp.
func (s *Server) signSession(id string, exp time.Time) (string, time.Time, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	token, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return token, exp, err
}

// parseSession validates tok and returns the session id and expiry it carries.
func (s *Server) parseSession(tok string) (string, time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !t.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, false
	}
	return claims.Subject, claims.ExpiresAt.Time, true
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
