package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/nexus/internal/dependencies/clock"
	"github.com/mcoot/nexus/internal/dependencies/random"
	"github.com/mcoot/nexus/internal/generator"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/ledger"
	"github.com/mcoot/nexus/internal/storage"
)

// Fallback texts for empty model answers
const (
	ChatFallback      = "I'm sorry, I couldn't process that."
	AnalyzeFallback   = "No analysis generated."
	DefaultLensPrompt = "Describe this image in detail."
)

// Artwork is one generated canvas image
type Artwork struct {
	ID        string      `json:"id"`
	Prompt    string      `json:"prompt"`
	Image     model.Image `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Speech is synthesized audio
type Speech struct {
	Voice      string
	PCM        []byte
	SampleRate int
	Channels   int
}

// Service runs the credit-metered studio modules
type Service struct {
	storage   storage.Storage
	ledger    *ledger.Service
	generator generator.Generator
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[model.Capability]bool

	galleryMu sync.RWMutex
	gallery   []Artwork
}

// New creates a new studio service
func New(
	storage storage.Storage,
	ledger *ledger.Service,
	generator generator.Generator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		ledger:    ledger,
		generator: generator,
		clock:     clock,
		random:    random,
		logger:    logger,
		inFlight:  make(map[model.Capability]bool),
	}
}

// Chat answers a prompt and records the exchange in the chat history
func (s *Service) Chat(ctx context.Context, prompt string) (*model.Message, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, model.ErrEmptyInput
	}

	var answer string
	receipt, err := s.run(ctx, model.CapabilityChat, func(ctx context.Context) error {
		var err error
		answer, err = s.generator.GenerateText(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer) == "" {
		answer = ChatFallback
	}

	now := s.clock.Now()
	question := model.Message{ID: s.messageID(), Role: model.RoleUser, Content: prompt, Timestamp: now}
	reply := model.Message{ID: s.messageID(), Role: model.RoleAssistant, Content: answer, Timestamp: now}

	err = s.storage.Update(context.WithoutCancel(ctx), func(st *model.State) error {
		// A reply for a session that has since ended is dropped
		if st.Session == nil || !st.Session.HasEmail(receipt.Email) {
			return nil
		}
		st.ChatHistory = append(st.ChatHistory, question, reply)
		return nil
	})
	if err != nil {
		s.logger.Warn("chat history not saved", slog.String("error", err.Error()))
	}
	return &reply, nil
}

// ChatHistory returns the persisted transcript
func (s *Service) ChatHistory(ctx context.Context) ([]model.Message, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return st.ChatHistory, nil
}

// ClearChat empties the transcript
func (s *Service) ClearChat(ctx context.Context) error {
	return s.storage.Update(ctx, func(st *model.State) error {
		st.ChatHistory = []model.Message{}
		return nil
	})
}

// Paint generates an image and adds it to the gallery
func (s *Service) Paint(ctx context.Context, prompt string) (*Artwork, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, model.ErrEmptyInput
	}

	var img model.Image
	_, err := s.run(ctx, model.CapabilityCanvas, func(ctx context.Context) error {
		var err error
		img, err = s.generator.GenerateImage(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	art := Artwork{
		ID:        "art_" + s.random.String(9, random.Base36),
		Prompt:    prompt,
		Image:     img,
		CreatedAt: s.clock.Now(),
	}
	s.galleryMu.Lock()
	s.gallery = append([]Artwork{art}, s.gallery...)
	s.galleryMu.Unlock()
	return &art, nil
}

// Gallery returns generated images, newest first
func (s *Service) Gallery() []Artwork {
	s.galleryMu.RLock()
	defer s.galleryMu.RUnlock()
	out := make([]Artwork, len(s.gallery))
	copy(out, s.gallery)
	return out
}

// Speak synthesizes text with a prebuilt voice
func (s *Service) Speak(ctx context.Context, text, voiceName string) (*Speech, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyInput
	}
	voice, ok := LookupVoice(voiceName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownVoice, voiceName)
	}

	var pcm []byte
	_, err := s.run(ctx, model.CapabilityVoice, func(ctx context.Context) error {
		var err error
		pcm, err = s.generator.SynthesizeSpeech(ctx, text, voice.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Speech{
		Voice:      voice.Name,
		PCM:        pcm,
		SampleRate: generator.SampleRate,
		Channels:   generator.Channels,
	}, nil
}

// Inspect describes an image. An empty prompt asks for a detailed description.
func (s *Service) Inspect(ctx context.Context, img model.Image, prompt string) (string, error) {
	if err := validateImage(img); err != nil {
		return "", err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = DefaultLensPrompt
	}

	var analysis string
	_, err := s.run(ctx, model.CapabilityLens, func(ctx context.Context) error {
		var err error
		analysis, err = s.generator.AnalyzeImage(ctx, img, prompt)
		return err
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(analysis) == "" {
		analysis = AnalyzeFallback
	}
	return analysis, nil
}

// Busy reports whether a module has a request in flight
func (s *Service) Busy(c model.Capability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[c]
}

// run debits the module cost, then calls generate. Generation is detached
// from ctx cancellation; on failure the debit is refunded.
func (s *Service) run(ctx context.Context, c model.Capability, generate func(context.Context) error) (ledger.Receipt, error) {
	if !s.acquire(c) {
		return ledger.Receipt{}, model.ErrModuleBusy
	}
	defer s.release(c)

	receipt, err := s.ledger.Debit(ctx, c.Cost())
	if err != nil {
		return ledger.Receipt{}, err
	}

	detached := context.WithoutCancel(ctx)
	if err := generate(detached); err != nil {
		s.logger.Warn("generation failed",
			slog.String("module", string(c)),
			slog.String("error", err.Error()),
		)
		if rerr := s.ledger.Refund(detached, receipt); rerr != nil {
			err = errors.Join(err, rerr)
		}
		if !errors.Is(err, model.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", model.ErrGenerationFailed, err)
		}
		return ledger.Receipt{}, err
	}

	s.logger.Info("module request completed",
		slog.String("module", string(c)),
		slog.Int("cost", c.Cost()),
		slog.Bool("metered", receipt.Metered),
	)
	return receipt, nil
}

func (s *Service) acquire(c model.Capability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[c] {
		return false
	}
	s.inFlight[c] = true
	return true
}

func (s *Service) release(c model.Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, c)
}

func (s *Service) messageID() string {
	return "msg_" + s.random.String(9, random.Base36)
}
