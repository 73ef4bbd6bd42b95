package summarize

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
)

// CharsPerToken converts a model's token capacity into the character bound
// used for truncation.
const CharsPerToken = 4

// GenerationBounds are the fixed output limits of the abstractive strategy.
type GenerationBounds struct {
	MaxLength     int
	MinLength     int
	Deterministic bool
}

// DefaultBounds: 30 to 150 output tokens, greedy decoding.
var DefaultBounds = GenerationBounds{
	MaxLength:     150,
	MinLength:     30,
	Deterministic: true,
}

// Model is a loaded sequence-to-sequence summarization model. Implementations
// must be safe for concurrent Generate calls.
type Model interface {
	Name() string
	MaxInputTokens() int
	// Generate returns the candidate summaries for text, best first.
	Generate(ctx context.Context, text string, bounds GenerationBounds) ([]string, error)
}

// LoaderFunc builds and probes a Model.
type LoaderFunc func(ctx context.Context) (Model, error)

type ModelState int32

const (
	ModelUninitialized ModelState = iota
	ModelLoading
	ModelReady
	ModelLoadFailed
)

func (s ModelState) String() string {
	switch s {
	case ModelUninitialized:
		return "uninitialized"
	case ModelLoading:
		return "loading"
	case ModelReady:
		return "ready"
	case ModelLoadFailed:
		return "load_failed"
	default:
		return fmt.Sprintf("ModelState(%d)", int32(s))
	}
}

var ErrModelAlreadyLoaded = errors.New("model load already attempted")

// ModelHolder owns the process-wide model. It moves once from Uninitialized
// through Loading to Ready or LoadFailed and never leaves those states.
type ModelHolder struct {
	mu    sync.RWMutex
	state ModelState
	model Model
	err   error
}

func NewModelHolder() *ModelHolder {
	return &ModelHolder{}
}

// Load runs loader exactly once. Later calls return ErrModelAlreadyLoaded
// without touching the state.
func (h *ModelHolder) Load(ctx context.Context, loader LoaderFunc) error {
	h.mu.Lock()
	if h.state != ModelUninitialized {
		h.mu.Unlock()
		return ErrModelAlreadyLoaded
	}
	h.state = ModelLoading
	h.mu.Unlock()

	model, err := runLoader(ctx, loader)
	if err == nil && model == nil {
		err = errors.New("loader returned no model")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = ModelLoadFailed
		h.err = err
		return err
	}
	h.state = ModelReady
	h.model = model
	return nil
}

func runLoader(ctx context.Context, loader LoaderFunc) (model Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = fmt.Errorf("model loader panicked: %v", r)
		}
	}()
	return loader(ctx)
}

func (h *ModelHolder) State() ModelState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Model returns the loaded model, or a ModelUnavailable error in every state
// other than Ready.
func (h *ModelHolder) Model() (Model, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != ModelReady {
		return nil, models.ModelUnavailableError(h.err)
	}
	return h.model, nil
}
