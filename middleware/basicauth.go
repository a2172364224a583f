package middleware

import (
	"crypto/subtle"
	"net/http"

	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// BasicAuth guards a handler with HTTP basic auth. Credentials are compared
// in constant time. If no credentials are configured the route is closed,
// not open: a misconfigured admin surface must fail shut.
func BasicAuth(username, password string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if username == "" || password == "" {
			log.Warnf("%s Admin credentials not configured, rejecting %s", logcolors.LogAuth, r.URL.Path)
			unauthorized(w)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !equal(user, username) || !equal(pass, password) {
			log.Warnf("%s Failed basic auth from %s for %s", logcolors.LogAuth, r.RemoteAddr, r.URL.Path)
			unauthorized(w)
			return
		}

		next(w, r)
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"Unauthorized"}`))
}
