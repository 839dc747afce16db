package types

// SuccessEnvelope wraps every successful response body under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListEnvelope is the success shape for collection endpoints. Count is the
// number of items returned, not the total matching rows.
type ListEnvelope struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
