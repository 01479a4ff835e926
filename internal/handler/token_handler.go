/*
Package handler provides HTTP handler functions for issuing and inspecting SDK tokens.
*/
package handler

import (
	"errors"
	"net/http"

	"cobrowse/internal/app/cobrowse"
	"cobrowse/internal/pkg/auth/token"
	"cobrowse/internal/pkg/errs"
	"cobrowse/internal/pkg/logx"
	"cobrowse/internal/pkg/req"
	"cobrowse/internal/pkg/resp"
)

type IssueTokenInput struct {
	// Role is 1 for the customer page and 2 for the agent page.
	Role int `json:"role"`
}

// HandleIssueToken issues a standalone SDK token for the requested role.
func HandleIssueToken(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input IssueTokenInput
		if customErr := req.BindJSON(w, r, &input, false); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		issued, err := deps.Service.IssueToken(input.Role, 0)
		if err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":    issued.Token,
			"role":     issued.Role,
			"lifetime": issued.Lifetime,
			"domain":   issued.Domain,
		})
	}
}

type InspectTokenInput struct {
	Token string `json:"token"`
}

// HandleInspectToken decodes a token and reports whether it was signed with this server's secret.
func HandleInspectToken(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input InspectTokenInput
		if customErr := req.BindJSON(w, r, &input, false); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		inspection, err := deps.Service.Inspect(input.Token)
		if err != nil {
			resp.RespondError(w, r, serviceError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"header": inspection.Header,
			"claims": inspection.Claims,
			"valid":  inspection.Valid,
		})
	}
}

// serviceError maps service and codec errors onto response codes.
// Messages come from the error table only, so the signing secret can never leak through err.
func serviceError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, cobrowse.ErrCredentialsMissing):
		logx.Warn("Token request rejected: cobrowse credentials are not configured")
		return errs.NewError(errs.ErrCredentialsMissing)
	case errors.Is(err, cobrowse.ErrInvalidRole):
		return errs.NewError(errs.ErrRoleInvalid, token.RoleCustomer, token.RoleAgent)
	case errors.Is(err, cobrowse.ErrInvalidPIN):
		return errs.NewError(errs.ErrInvalidParams)
	case errors.Is(err, cobrowse.ErrAlreadyJoined):
		return errs.NewError(errs.ErrSessionAlreadyJoined)
	case errors.Is(err, cobrowse.ErrNotParticipant):
		return errs.NewError(errs.ErrUnauthorized)
	case errors.Is(err, token.ErrMalformedToken):
		return errs.NewError(errs.ErrMalformedToken)
	}

	if customErr := sessionError(err); customErr != nil {
		return customErr
	}

	logx.Error(err, "Unhandled service error")
	return errs.NewError(errs.ErrUnknown)
}
