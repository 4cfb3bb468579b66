package middleware

import (
	"net/http"

	"artsy/internal/models"
	"artsy/internal/reqctx"
	"artsy/internal/utils/helpers"
)

// AnyRole must run after JWTAuth. Admins always pass.
func AnyRole(allowed ...models.Role) func(http.Handler) http.Handler {
	roleSet := make(map[models.Role]struct{}, len(allowed)+1)
	for _, r := range allowed {
		roleSet[r] = struct{}{}
	}
	roleSet[models.RoleAdmin] = struct{}{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := reqctx.GetRole(r.Context())
			if !ok {
				helpers.Error(w, http.StatusForbidden, "role unknown")
				return
			}
			if _, found := roleSet[models.Role(role)]; !found {
				helpers.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func OnlyRole(role models.Role) func(http.Handler) http.Handler {
	return AnyRole(role)
}
