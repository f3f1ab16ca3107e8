package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// PageEnvelope wraps paginated listings with the total row count and the next
// page number when more rows remain.
type PageEnvelope struct {
	Count   int64 `json:"count"`
	Next    *int  `json:"next"`
	Results any   `json:"results"`
}
