package server

import (
	"context"
	"net/http"

	"moblind/internal/session"
)

type ctxKey int

const (
	sessionIDKey ctxKey = iota + 1
	staffUserKey
)

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// withSession resolves the visitor's session cookie, issuing a new id when
// the cookie is absent or malformed. The cookie is refreshed on every request
// so it expires together with the stored session.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.cfg.Session
		id := ""
		if c, err := r.Cookie(cfg.CookieName); err == nil && session.ValidID(c.Value) {
			id = c.Value
		} else {
			id = session.NewID()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(cfg.SessionTTL().Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		next(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, id)))
	}
}
