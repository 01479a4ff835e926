/*
Package handler provides HTTP handler functions for starting, joining and ending cobrowse sessions.
*/
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cobrowse/internal/app/session"
	"cobrowse/internal/pkg/auth/token"
	"cobrowse/internal/pkg/errs"
	"cobrowse/internal/pkg/req"
	"cobrowse/internal/pkg/resp"
)

// HandleStartSession starts a session for the customer page and returns its PIN and customer token.
func HandleStartSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := deps.Service.StartSession(r.Context())
		if err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"sessionId": handle.Session.ID,
			"pin":       handle.Session.PIN,
			"state":     handle.Session.State,
			"expiresAt": handle.Session.ExpiresAt.UTC().Format(time.RFC3339),
			"token":     handle.Token,
			"role":      handle.Role,
			"lifetime":  handle.Lifetime,
			"domain":    handle.Domain,
		})
	}
}

type JoinSessionInput struct {
	PIN string `json:"pin"`
}

// HandleJoinSession lets the agent page join a pending session by PIN.
func HandleJoinSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input JoinSessionInput
		if customErr := req.BindJSON(w, r, &input, false); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		handle, err := deps.Service.JoinSession(r.Context(), input.PIN)
		if err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"sessionId": handle.Session.ID,
			"state":     handle.Session.State,
			"token":     handle.Token,
			"role":      handle.Role,
			"lifetime":  handle.Lifetime,
			"domain":    handle.Domain,
		})
	}
}

// HandleSessionStatus reports the session state to the customer or agent holding one of its tokens.
func HandleSessionStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := token.GetClaimsFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		sess, err := deps.Service.SessionStatus(r.Context(), chi.URLParam(r, "pin"), claims.UserID)
		if err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"sessionId": sess.ID,
			"state":     sess.State,
			"expiresAt": sess.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// HandleEndSession ends a session. The caller must present the customer or agent token of that session.
func HandleEndSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := token.GetClaimsFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		pin := chi.URLParam(r, "pin")
		if err := deps.Service.EndSession(r.Context(), pin, claims.UserID); err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"pin":   pin,
			"ended": true,
		})
	}
}

func sessionError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return errs.NewError(errs.ErrSessionNotFound)
	case errors.Is(err, session.ErrPINExists):
		return errs.NewError(errs.ErrPINExists)
	case errors.Is(err, session.ErrAlreadyActive):
		return errs.NewError(errs.ErrSessionAlreadyJoined)
	}
	return nil
}
