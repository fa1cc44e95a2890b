package dbfs

import "fmt"

// APIError is a structured DBFS error response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("dbfs error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("dbfs error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("dbfs error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// NotFoundError indicates a missing path or endpoint (404, RESOURCE_DOES_NOT_EXIST).
type NotFoundError struct{ *APIError }

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s", e.APIError.Error()) }

// ExistsError indicates the target already exists and overwrite was not requested.
type ExistsError struct{ *APIError }

func (e *ExistsError) Error() string { return fmt.Sprintf("already exists: %s", e.APIError.Error()) }

// ServerError indicates 5xx errors from the workspace.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("workspace error: %s", e.APIError.Error()) }

// UnreachableError indicates the workspace host could not be reached.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("workspace unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("workspace unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
