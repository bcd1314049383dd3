package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// BatchItemResult reports the outcome of one item in a bulk operation.
type BatchItemResult struct {
	Target string `json:"target" example:"athlete@example.com"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}
