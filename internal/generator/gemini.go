package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/mcoot/nexus/internal/model"
)

// DefaultSystemInstruction primes the chat model
const DefaultSystemInstruction = "You are Nexus IA, a helpful and highly intelligent assistant. " +
	"When providing code or scripts, ALWAYS use markdown code blocks and ALWAYS specify the language name " +
	"(e.g., ```python, ```javascript, ```java)."

// Config holds configuration for the Gemini generator
type Config struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	SpeechModel string
	// BaseURL overrides the API endpoint (tests)
	BaseURL string

	SystemInstruction string
	Temperature       float32
	TopP              float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig() Config {
	return Config{
		TextModel:         "gemini-3-flash-preview",
		ImageModel:        "gemini-2.5-flash-image",
		SpeechModel:       "gemini-2.5-flash-preview-tts",
		SystemInstruction: DefaultSystemInstruction,
		Temperature:       0.7,
		TopP:              0.95,
	}
}

// Gemini implements Generator over the Gemini API
type Gemini struct {
	client *genai.Client
	cfg    Config
}

// Ensure Gemini implements Generator
var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini-backed generator
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	def := DefaultConfig()
	if cfg.TextModel == "" {
		cfg.TextModel = def.TextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = def.SpeechModel
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = def.SystemInstruction
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = def.TopP
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature, topP := g.cfg.Temperature, g.cfg.TopP
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TextModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.cfg.SystemInstruction, genai.RoleUser),
			Temperature:       &temperature,
			TopP:              &topP,
		},
	)
	if err != nil {
		return "", failed(err)
	}
	return resp.Text(), nil
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (model.Image, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.ImageModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1"},
		},
	)
	if err != nil {
		return model.Image{}, failed(err)
	}
	blob := firstInlineData(resp)
	if blob == nil {
		return model.Image{}, failed(errors.New("response contained no image"))
	}
	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return model.Image{MIMEType: mime, Data: blob.Data}, nil
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(text)}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.SpeechModel, contents,
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	)
	if err != nil {
		return nil, failed(err)
	}
	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, failed(errors.New("response contained no audio"))
	}
	return blob.Data, nil
}

func (g *Gemini) AnalyzeImage(ctx context.Context, image model.Image, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, image.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TextModel, contents, nil)
	if err != nil {
		return "", failed(err)
	}
	return resp.Text(), nil
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData != nil {
				return p.InlineData
			}
		}
	}
	return nil
}
