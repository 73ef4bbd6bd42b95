package summarize

import "context"

// Strategy is the summarization algorithm active for the process lifetime.
type Strategy interface {
	// Name identifies the strategy in logs and health output.
	Name() string

	// MaxInputLength is the number of characters Summarize accepts. It is
	// queried per request because it may depend on the loaded model.
	MaxInputLength() int

	// Summarize condenses already bounded text.
	Summarize(ctx context.Context, text string) (string, error)
}
