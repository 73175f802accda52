package middleware

import (
	"net/http"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from the user record)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireClinical allows roles that write clinical records.
func RequireClinical(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDTherapist)(next)
}

// RequirePasswordChanged blocks accounts that still carry a temporary
// password. Only the change-password, me and logout routes skip it.
func RequirePasswordChanged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mustChange, _ := r.Context().Value(MustChangePasswordKey).(bool); mustChange {
			response.Forbidden(w, "Password change required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
