package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

// ErrInvalidPreference is returned for an unknown theme or language
var ErrInvalidPreference = errors.New("invalid preference")

// Languages lists the supported console languages
var Languages = []string{"fr", "en"}

// Service stores the profile's display preferences
type Service struct {
	storage storage.Storage
}

// New creates a new settings service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Get returns the current preferences
func (s *Service) Get(ctx context.Context) (model.Preferences, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return model.Preferences{}, err
	}
	return st.Preferences, nil
}

// Update applies the non-empty fields of p
func (s *Service) Update(ctx context.Context, p model.Preferences) (model.Preferences, error) {
	if p.Theme != "" && p.Theme != model.ThemeDark && p.Theme != model.ThemeLight {
		return model.Preferences{}, fmt.Errorf("%w: theme %q", ErrInvalidPreference, p.Theme)
	}
	if p.Language != "" && !supported(p.Language) {
		return model.Preferences{}, fmt.Errorf("%w: language %q", ErrInvalidPreference, p.Language)
	}

	var out model.Preferences
	err := s.storage.Update(ctx, func(st *model.State) error {
		if p.Theme != "" {
			st.Preferences.Theme = p.Theme
		}
		if p.Language != "" {
			st.Preferences.Language = p.Language
		}
		out = st.Preferences
		return nil
	})
	return out, err
}

func supported(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
