package server

import (
	"context"
	"net/http"
	"strings"

	"moblind/internal/domain"
	"moblind/internal/services"
)

func staffUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(staffUserKey).(*domain.User)
	return u
}

// requireStaff rejects requests without a bearer token for an account that
// may read inquiries.
func (s *Server) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="moblind"`)
			s.writeError(ctx, w, services.Unauthorized("missing bearer token"))
			return
		}

		user, err := s.svc.Auth.Authenticate(ctx, strings.TrimSpace(token))
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(ctx, staffUserKey, user)))
	}
}
