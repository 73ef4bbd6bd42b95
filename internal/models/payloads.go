package models

// These structs define the JSON payloads exchanged with HTTP callers and the
// Cloud Storage event trigger.

// SummarizeResponse is the success body of POST /summarize.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is the failure body of POST /summarize.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports which strategy is active and the model lifecycle state.
type HealthResponse struct {
	Strategy   string `json:"strategy"`
	ModelState string `json:"modelState,omitempty"`
}

// GCSEvent is the payload of a Cloud Storage object finalize event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
	Size   string `json:"size,omitempty"`
}
