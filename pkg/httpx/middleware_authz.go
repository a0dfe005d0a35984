package httpx

import "net/http"

// Require lets the request through only when allow accepts the principal
// placed in the context by AuthnMiddleware. It must run after it.
func Require(allow func(Principal) bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteUnauthenticated(w, "missing principal")
				return
			}
			if !allow(p) {
				WriteError(w, http.StatusForbidden, ErrorCodeForbidden, "your role does not permit this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
