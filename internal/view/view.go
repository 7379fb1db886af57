package view

// Response is the envelope every JSON endpoint returns.
type Response[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Request any    `json:"request,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the swagger-facing shape of an error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is the swagger-facing shape of a plain message envelope
type MessageResponse struct {
	Data    string `json:"data"`
	Message string `json:"message,omitempty"`
}

// CreateResponse builds the response envelope. The failed request payload is
// echoed back on validation errors so clients can see what the server parsed.
func CreateResponse[T any](data T, err error, request any, message string) Response[T] {
	r := Response[T]{
		Data:    data,
		Request: request,
		Message: message,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
