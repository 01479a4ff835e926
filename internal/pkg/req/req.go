/*
Package req provides helper functions for HTTP request parsing and data binding.

It decodes small JSON bodies sent by the customer and agent pages, enforcing the
content type, a body size limit, and rejecting unknown fields or trailing data.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cobrowse/internal/pkg/errs"
)

// MaxJSONBodySize bounds every JSON request body. Token and session requests are tiny.
const MaxJSONBodySize int64 = 16 << 10 // 16 KB

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// An empty body is accepted when allowEmpty is true, leaving dst untouched.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) *errs.CustomError {
	if allowEmpty && r.ContentLength == 0 {
		return nil
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
