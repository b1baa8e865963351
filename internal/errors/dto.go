package errors

// ErrorResponse is the envelope every non-2xx invoice API response carries:
// {"success": false, "error": {"message": ..., "details": ...}}
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the display message taken from the error's hints and
// any field level details that are safe to show the caller
type ErrorDetail struct {
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
