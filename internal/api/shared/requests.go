package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskward/internal/domain"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return nil
}

// DecodeJSONAllowed decodes the request body into v, rejecting the whole
// request if the body contains any key outside the allowed set. Partial
// updates are all-or-nothing: one unknown field invalidates every field.
func DecodeJSONAllowed(r *http.Request, v interface{}, allowed ...string) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		allowedSet[field] = struct{}{}
	}

	var unknown []string
	for key := range raw {
		if _, ok := allowedSet[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: invalid updates: %v", domain.ErrValidation, unknown)
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if customValidator, ok := v.(interface{ Validate() error }); ok {
		return customValidator.Validate()
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
