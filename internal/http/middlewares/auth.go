package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/roleviews/internal/http/errors"
	jwtx "github.com/dropDatabas3/roleviews/internal/jwt"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// bearerToken extrae el token de "Authorization: Bearer <JWT>".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireAuth valida el Bearer JWT y guarda el user ID (sub) en el contexto.
// Sin token o con token inválido responde 401.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				errors.WriteError(w, r, errors.ErrTokenMissing)
				return
			}
			sub, err := issuer.Parse(tok)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				errors.WriteError(w, r, errors.ErrTokenInvalid.WithCause(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sub)))
		})
	}
}

// OptionalAuth es como RequireAuth pero deja pasar requests sin token como anónimos.
// Un token presente pero inválido sigue respondiendo 401.
func OptionalAuth(issuer *jwtx.Issuer) Middleware {
	required := RequireAuth(issuer)
	return func(next http.Handler) http.Handler {
		withAuth := required(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerToken(r) == "" {
				next.ServeHTTP(w, r)
				return
			}
			withAuth.ServeHTTP(w, r)
		})
	}
}
