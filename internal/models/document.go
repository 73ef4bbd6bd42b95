package models

// SummarizeRequest is one uploaded document handed to the summarization pipeline.
// Content is treated as read-only for the lifetime of the request.
type SummarizeRequest struct {
	RequestID string
	Filename  string
	Content   []byte
}

// ModelManifest describes the abstractive model to load at process start. It is
// read once from Cloud Storage when MODEL_MANIFEST_URI is set.
type ModelManifest struct {
	Backend        string `json:"backend,omitempty"`
	Name           string `json:"name,omitempty"`
	MaxInputTokens int    `json:"maxInputTokens,omitempty"`
	SystemPrompt   string `json:"systemPrompt,omitempty"`
}
