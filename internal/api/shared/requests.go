package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for request structs.
var validate = validator.New()

// DecodeAndValidate decodes the request body into dst and validates it
// against its struct tags. Returns a client-presentable error on failure.
func DecodeAndValidate(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}
