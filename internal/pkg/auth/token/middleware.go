package token

import (
	"context"
	"net/http"
	"strings"

	"cobrowse/internal/pkg/logx"
)

// Define Context Key for storing the Claims struct, preventing key collisions with other packages.
type contextKey string

const (
	// ContextClaimsKey is the key used to store the verified *Claims in the request Context.
	ContextClaimsKey contextKey = "token_claims"
)

// ClaimsExtractorMiddleware verifies a bearer token with the given secret and injects its Claims
// into the Context. It does NOT interrupt the request on failure or missing token; handlers that
// need a caller identity check GetClaimsFromContext themselves.
func ClaimsExtractorMiddleware(codec *Codec, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.ParseAndVerify(parts[1], secret)
			if err != nil {
				logx.Warn("Invalid or expired token provided, treating as anonymous", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the verified Claims from the request Context.
// A nil return means the caller presented no valid token.
func GetClaimsFromContext(r *http.Request) *Claims {
	claims, ok := r.Context().Value(ContextClaimsKey).(*Claims)
	if !ok {
		return nil
	}

	return claims
}
