/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Cobrowse Session Errors
	ErrRoleInvalid:          {Code: ErrRoleInvalid, Message: "Role must be %d (customer) or %d (agent).", Status: http.StatusBadRequest},
	ErrPINExists:            {Code: ErrPINExists, Message: "Could not allocate a session PIN. Please try again.", Status: http.StatusConflict},
	ErrSessionNotFound:      {Code: ErrSessionNotFound, Message: "No session found for that PIN.", Status: http.StatusNotFound},
	ErrSessionAlreadyJoined: {Code: ErrSessionAlreadyJoined, Message: "An agent has already joined this session.", Status: http.StatusConflict},

	// 3xxx: Token Errors
	ErrMalformedToken: {Code: ErrMalformedToken, Message: "Token is malformed.", Status: http.StatusBadRequest},
	ErrUnauthorized:   {Code: ErrUnauthorized, Message: "A valid session token is required.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:            {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrCredentialsMissing: {Code: ErrCredentialsMissing, Message: "Cobrowse credentials are not configured. Set COBROWSE_APP_KEY and COBROWSE_APP_SECRET.", Status: http.StatusServiceUnavailable},
}
