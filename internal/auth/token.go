package auth

import (
	"net/http"
	"strings"
)

// ExtractAccessToken pulls the JWT out of an incoming request. Browser
// clients send it in the access_token cookie; API clients use a Bearer
// Authorization header. The cookie wins when both are present.
func ExtractAccessToken(r *http.Request) string {
	if c, err := r.Cookie("access_token"); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
