package middleware

import (
	"net/http"
	"strings"

	"github.com/EmpoweredVote/bookshelf/internal/auth"
	"github.com/EmpoweredVote/bookshelf/internal/utils"
	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

// TokenVerifier turns a session token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (utils.Identity, error)
}

// SessionMiddleware requires a valid "jwt" cookie and attaches the caller's
// identity to the request context. A cookie that fails verification is cleared.
func SessionMiddleware(verifier TokenVerifier, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				webutil.RespondWithError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				auth.ClearSessionCookie(w, secure)
				webutil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := utils.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SelfOnly lets the request through only when the numeric URL parameter
// named param equals the session identity's id. Requests for ids that are not
// numeric pass through so the handler can answer 404.
func SelfOnly(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.IdentityFromContext(r.Context())
			if !ok {
				webutil.RespondWithError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			id, ok := utils.PathID(r, param)
			if ok && id != identity.ID {
				webutil.RespondWithError(w, http.StatusForbidden, "Unauthorized to modify another user")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware echoes the request origin back when it is on the allow-list
// and answers preflight requests directly.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
