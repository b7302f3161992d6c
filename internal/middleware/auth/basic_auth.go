package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

// BasicAuth guards the admin register routes. Form users are identified by
// an owner id supplied by the frontends, only the admin surface needs
// credentials here.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Basic ") {
				requireAuth(w)
				return
			}

			creds, err := base64.StdEncoding.DecodeString(authHeader[6:])
			if err != nil {
				requireAuth(w)
				return
			}

			credPair := strings.SplitN(string(creds), ":", 2)
			if len(credPair) != 2 {
				requireAuth(w)
				return
			}

			userOk := subtle.ConstantTimeCompare([]byte(credPair[0]), []byte(username)) == 1
			passOk := subtle.ConstantTimeCompare([]byte(credPair[1]), []byte(password)) == 1
			if !userOk || !passOk {
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="BQC Admin"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
