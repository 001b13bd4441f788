package pipelineerr

import "net/http"

// APIError is a standardized error response shape for the optional HTTP
// surface (§12.1), analogous to the reference backend's own API error
// type but scoped to run/phase operations instead of video jobs.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Status  int                    `json:"-"`
}

func (e *APIError) Error() string { return e.Message }

// WithDetails returns a copy of the error with Details set.
func (e *APIError) WithDetails(details map[string]interface{}) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

var (
	ErrInvalidRequest = &APIError{Code: "INVALID_REQUEST", Message: "invalid request body", Status: http.StatusBadRequest}
	ErrInvalidBrief   = &APIError{Code: "INVALID_BRIEF", Message: "brief failed validation", Status: http.StatusBadRequest}
	ErrUnauthorized   = &APIError{Code: "UNAUTHORIZED", Message: "authentication required", Status: http.StatusUnauthorized}
	ErrForbidden      = &APIError{Code: "FORBIDDEN", Message: "quota exceeded", Status: http.StatusForbidden}
	ErrRunNotFound    = &APIError{Code: "RUN_NOT_FOUND", Message: "run not found", Status: http.StatusNotFound}
	ErrInternal       = &APIError{Code: "INTERNAL_ERROR", Message: "an internal error occurred", Status: http.StatusInternalServerError}
)

// ErrorResponse is the JSON envelope returned for any failed API call.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewAPIError derives a new error from base with an overridden message/details.
func NewAPIError(base *APIError, message string, details map[string]interface{}) *APIError {
	err := *base
	if message != "" {
		err.Message = message
	}
	if details != nil {
		err.Details = details
	}
	return &err
}

// FromKind maps a pipeline error Kind to the APIError shape the HTTP
// surface returns, per the §7 propagation policy (fatal kinds become
// 4xx/5xx, degradable/transient kinds should never reach this mapping
// because they are absorbed before the HTTP boundary).
func FromKind(kind Kind, detail string) *APIError {
	switch kind {
	case KindBriefInvalid:
		return NewAPIError(ErrInvalidBrief, detail, nil)
	case KindDirectorOutputInvalid, KindModelSchemaViolation:
		return NewAPIError(ErrInternal, detail, map[string]interface{}{"kind": string(kind)})
	case KindCancelled:
		return NewAPIError(&APIError{Code: "CANCELLED", Message: "run cancelled", Status: http.StatusConflict}, detail, nil)
	default:
		return NewAPIError(ErrInternal, detail, map[string]interface{}{"kind": string(kind)})
	}
}
