/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with the customer and agent pages.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Cobrowse Session Errors
const (
	// ErrRoleInvalid indicates a role other than customer (1) or agent (2) was requested.
	ErrRoleInvalid = 2101

	// ErrPINExists indicates that a freshly generated PIN collided with a live session.
	ErrPINExists = 2102

	// ErrSessionNotFound indicates that no live session matches the supplied PIN.
	ErrSessionNotFound = 2103

	// ErrSessionAlreadyJoined indicates that an agent has already joined the session.
	ErrSessionAlreadyJoined = 2104
)

// 3xxx: Token Errors
const (
	// ErrMalformedToken indicates the supplied token is not three decodable segments.
	ErrMalformedToken = 3001

	// ErrUnauthorized indicates the request lacks a valid token for the resource.
	ErrUnauthorized = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrCredentialsMissing indicates the SDK app key or secret is not configured.
	ErrCredentialsMissing = 5003
)
