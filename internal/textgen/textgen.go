// Package textgen produces the human-readable text around the draft engine:
// pick reasoning, manager notes and league storylines. Generated text is
// decoration only, so every call has a bounded timeout and a template fallback.
package textgen

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/metrics"
)

// Kinds of generated text
const (
	KindReasoning  = "reasoning"
	KindDraftNotes = "draft_notes"
	KindStoryline  = "storyline"
)

var errEmpty = errors.New("empty response")

// Generator is a text-generation backend
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is one text request with its deterministic fallback
type Request struct {
	Kind     string
	Prompt   string
	Fallback string
}

// Writer wraps a Generator with a timeout and template fallback. A nil
// Generator means template-only text.
type Writer struct {
	gen     Generator
	timeout time.Duration
}

// NewWriter creates a Writer. gen may be nil.
func NewWriter(gen Generator, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Writer{gen: gen, timeout: timeout}
}

// Text returns generated text, or the request's fallback when generation is
// unavailable, fails, times out or returns nothing. The bool reports whether
// the fallback was used.
func (w *Writer) Text(ctx context.Context, req Request) (string, bool) {
	if w == nil || w.gen == nil {
		metrics.IncFallback(req.Kind)
		return req.Fallback, true
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	out, err := w.gen.Generate(ctx, req.Prompt)
	out = strings.TrimSpace(out)
	if err == nil && out != "" {
		metrics.IncTextGen("ok")
		return out, false
	}

	if err == nil {
		err = apperrors.CapabilityUnavailable("text generation", errEmpty)
		metrics.IncTextGen("empty")
	} else {
		err = apperrors.CapabilityUnavailable("text generation", err)
		metrics.IncTextGen("error")
	}
	logger.Warn("Text generation failed, using template", "kind", req.Kind, "error", err)
	metrics.IncFallback(req.Kind)
	return req.Fallback, true
}
