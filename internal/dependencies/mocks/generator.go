package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcoot/nexus/internal/generator"
	"github.com/mcoot/nexus/internal/model"
)

// MockGenerator is a scriptable Generator for testing. By default every call
// succeeds with a canned result; Fail makes calls fail and Hold blocks them
// until Release.
type MockGenerator struct {
	mu    sync.Mutex
	err   error
	text  string
	image model.Image
	audio []byte
	gate  chan struct{}
	calls []string
	// Entered receives one value as each call starts, when non-nil
	Entered chan string
}

// Ensure MockGenerator implements Generator
var _ generator.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a generator returning canned results
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		text:  "mock answer",
		image: model.Image{MIMEType: "image/png", Data: []byte("png")},
		audio: []byte{0, 1, 0, 1},
	}
}

// SetText sets the result of text calls
func (g *MockGenerator) SetText(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.text = text
}

// Fail makes every subsequent call return err wrapped in ErrGenerationFailed;
// nil restores success
func (g *MockGenerator) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Hold blocks subsequent calls until Release
func (g *MockGenerator) Hold() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gate = make(chan struct{})
}

// Release unblocks held calls
func (g *MockGenerator) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gate != nil {
		close(g.gate)
		g.gate = nil
	}
}

// Calls returns the operations invoked so far
func (g *MockGenerator) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *MockGenerator) enter(op string) error {
	g.mu.Lock()
	g.calls = append(g.calls, op)
	gate := g.gate
	entered := g.Entered
	g.mu.Unlock()

	if entered != nil {
		entered <- op
	}
	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return fmt.Errorf("%w: %w", model.ErrGenerationFailed, g.err)
	}
	return nil
}

func (g *MockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	if err := g.enter("text:" + prompt); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.text, nil
}

func (g *MockGenerator) GenerateImage(_ context.Context, prompt string) (model.Image, error) {
	if err := g.enter("image:" + prompt); err != nil {
		return model.Image{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.image, nil
}

func (g *MockGenerator) SynthesizeSpeech(_ context.Context, text, voice string) ([]byte, error) {
	if err := g.enter("speech:" + voice + ":" + text); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.audio, nil
}

func (g *MockGenerator) AnalyzeImage(_ context.Context, _ model.Image, prompt string) (string, error) {
	if err := g.enter("analyze:" + prompt); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.text, nil
}
