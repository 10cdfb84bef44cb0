package dto

// APIResponse is the uniform JSON envelope for every endpoint: successes
// carry data, failures carry a message. Error kinds surface inside the
// message text; HTTP status codes carry the machine-readable class.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope.
func Fail(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}
