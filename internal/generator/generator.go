package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/nexus/internal/model"
)

// Speech output format
const (
	SampleRate = 24000
	Channels   = 1
)

// Generator is the external generative capability behind the studio modules.
// Every error it returns wraps model.ErrGenerationFailed.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (model.Image, error)
	// SynthesizeSpeech returns raw 16-bit little-endian PCM at SampleRate
	SynthesizeSpeech(ctx context.Context, text, voice string) ([]byte, error)
	AnalyzeImage(ctx context.Context, image model.Image, prompt string) (string, error)
}

// ErrNotConfigured is returned by Unavailable
var ErrNotConfigured = errors.New("no generative model configured")

// Unavailable is a Generator that always fails. It stands in when no API
// key is configured, so every request is refunded.
type Unavailable struct{}

// Ensure Unavailable implements Generator
var _ Generator = Unavailable{}

func (Unavailable) GenerateText(context.Context, string) (string, error) {
	return "", failed(ErrNotConfigured)
}

func (Unavailable) GenerateImage(context.Context, string) (model.Image, error) {
	return model.Image{}, failed(ErrNotConfigured)
}

func (Unavailable) SynthesizeSpeech(context.Context, string, string) ([]byte, error) {
	return nil, failed(ErrNotConfigured)
}

func (Unavailable) AnalyzeImage(context.Context, model.Image, string) (string, error) {
	return "", failed(ErrNotConfigured)
}

// Configured reports whether g can reach a model
func Configured(g Generator) bool {
	_, unavailable := g.(Unavailable)
	return g != nil && !unavailable
}

func failed(cause error) error {
	return fmt.Errorf("%w: %w", model.ErrGenerationFailed, cause)
}
