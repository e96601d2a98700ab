package gemini

import (
	"errors"
	"fmt"

	"github.com/googleapis/gax-go/v2/apierror"
)

// unwrapAPIError strips the gax wrapper so callers see the service error.
func unwrapAPIError(err error) error {
	var e *apierror.APIError
	if errors.As(err, &e) {
		if inner := e.Unwrap(); inner != nil {
			return inner
		}
	}
	return err
}

// operationError converts the status map of a finished operation.
func operationError(m map[string]any) (code int, message string) {
	if m == nil {
		return 0, ""
	}
	switch v := m["code"].(type) {
	case float64:
		code = int(v)
	case int:
		code = v
	case int32:
		code = int(v)
	case int64:
		code = int(v)
	}
	if s, ok := m["message"].(string); ok && s != "" {
		return code, s
	}
	return code, fmt.Sprintf("operation failed: %v", m)
}
