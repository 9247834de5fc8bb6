package middleware

import "net/http"

// GetClaims returns the JWT claims stashed by JWTMiddleware, or nil on an
// unauthenticated request.
func GetClaims(r *http.Request) *Claims {
	claims, _ := r.Context().Value(userClaimsKey).(*Claims)
	return claims
}

// GetRole returns the authenticated caller's role, or "".
func GetRole(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.Role
	}
	return ""
}
