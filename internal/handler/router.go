/*
Package handler provides the HTTP handlers and routing setup for the cobrowse demo server.

This file defines the main Router, applying middleware like logging, CORS and IP-based rate
limiting before delegating to the token, session and static asset handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"cobrowse/internal/pkg/auth/token"
	"cobrowse/internal/pkg/limiter"
	"cobrowse/internal/pkg/logx"
	"cobrowse/internal/pkg/resp"
)

const (
	TokenRate    = 1.0
	TokenBurst   = 10
	SessionRate  = 0.2
	SessionBurst = 5
)

// Limiters holds the per-IP limiters used by the router so the caller can stop them on shutdown.
type Limiters struct {
	Token   *limiter.IPRateLimiter
	Session *limiter.IPRateLimiter
}

// NewLimiters creates the default limiters.
func NewLimiters() *Limiters {
	return &Limiters{
		Token:   limiter.NewIPRateLimiter(rate.Limit(TokenRate), TokenBurst),
		Session: limiter.NewIPRateLimiter(rate.Limit(SessionRate), SessionBurst),
	}
}

// Stop terminates the limiter cleanup goroutines.
func (l *Limiters) Stop() {
	l.Token.Stop()
	l.Session.Stop()
}

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps, limiters *Limiters) http.Handler {
	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":     "ok",
			"service":    "Cobrowse Demo Server",
			"configured": deps.Config.CredentialsConfigured(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(token.ClaimsExtractorMiddleware(deps.Codec, deps.Config.AppSecret))

		api.With(limiters.Token.Middleware).Post("/token", HandleIssueToken(deps))
		api.Post("/token/inspect", HandleInspectToken(deps))

		api.Route("/sessions", func(sessions chi.Router) {
			sessions.With(limiters.Session.Middleware).Post("/", HandleStartSession(deps))
			sessions.With(limiters.Token.Middleware).Post("/join", HandleJoinSession(deps))
			sessions.Get("/{pin}", HandleSessionStatus(deps))
			sessions.Delete("/{pin}", HandleEndSession(deps))
		})
	})

	r.Handle("/*", StaticHandler(deps.Assets))

	return r
}
