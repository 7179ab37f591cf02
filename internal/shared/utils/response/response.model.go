package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StandardApiResponse is the envelope of every JSON response. Data is set
// on success, Errors carries validation or domain error details.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
