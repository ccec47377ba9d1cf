package inbox

// ErrorResponse is the error body some servers send with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
