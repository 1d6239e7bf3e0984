package api

import "fmt"

// BasePath is the root of the REST routes.
const BasePath = "/v1/diff"

// Operand is the request body for uploading one side. Data travels as
// base64 in JSON.
type Operand struct {
	Data []byte `json:"data"`
}

// ErrorCode classifies a failed request.
type ErrorCode string

const (
	// CodeNotFound indicates that left or right has not been supplied yet.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates a malformed body or identifier.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodePayloadTooLarge indicates a body over the configured limit.
	CodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// CodeInternal indicates a server-side failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// APIError is returned by HTTPClient for unexpected responses.
type APIError struct {
	Op      string
	Status  int
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s: HTTP %d %s: %s", e.Op, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %s: HTTP %d: %s", e.Op, e.Status, e.Message)
}
