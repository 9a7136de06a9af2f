package studio

import (
	"strings"

	"github.com/mcoot/nexus/internal/model"
)

// DefaultVoice is used when no voice is requested
const DefaultVoice = "Kore"

var voices = []model.Voice{
	{Name: "Kore", Gender: "Female", Description: "Clear & Professional"},
	{Name: "Puck", Gender: "Male", Description: "Deep & Energetic"},
	{Name: "Charon", Gender: "Male", Description: "Calm & Steady"},
	{Name: "Fenrir", Gender: "Neutral", Description: "Ancient & Rich"},
	{Name: "Zephyr", Gender: "Neutral", Description: "Ethereal & Smooth"},
}

// Voices lists the prebuilt voices
func Voices() []model.Voice {
	out := make([]model.Voice, len(voices))
	copy(out, voices)
	return out
}

// LookupVoice resolves a voice name case-insensitively; empty selects the default
func LookupVoice(name string) (model.Voice, bool) {
	if name == "" {
		name = DefaultVoice
	}
	for _, v := range voices {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return model.Voice{}, false
}
