package types

// SuccessEnvelope wraps every 2xx payload the API returns.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Code mirrors pkg/errors codes; Details
// appears only for codes whose metadata allows detail exposure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
