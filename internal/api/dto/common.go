package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ValidationFailed builds the body for a rejected request. When the only
// problem is the combined "fields" entry its text becomes the error itself.
func ValidationFailed(details map[string]string) ErrorResponse {
	msg := "Validation failed"
	if m, ok := details["fields"]; ok && len(details) == 1 {
		msg = m
	}
	return ErrorResponse{Error: msg, Details: details}
}

type SuccessResponse struct {
	Message string `json:"message"`
}
