package devserver

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the token from the "Authorization" header and verifies it
// as an HS256 JWT signed with the configured sign key. Requests without
// a header, with a malformed header, or with a token that fails
// verification are rejected with HTTP 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.logger.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			h.logger.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		_, err = jwt.Parse(
			tokenString,
			func(token *jwt.Token) (any, error) { return []byte(h.signKey), nil },
			jwt.WithValidMethods([]string{"HS256"}),
		)
		if err != nil {
			h.logger.Err(err).Msg("rejected bearer token")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
