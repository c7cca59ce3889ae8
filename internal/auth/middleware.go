package auth

import (
	"net/http"
	"strings"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller's Session in the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		sess, err := s.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), sess)))
	})
}
