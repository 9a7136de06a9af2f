package storage

import (
	"context"

	"github.com/mcoot/nexus/internal/model"
)

// Storage persists the profile state: the active session, the user
// directory, the visit counter and admin configuration.
//
// All mutations go through Update, which reads the current state, hands a
// private copy to fn, and writes the result back as one unit. If fn returns
// an error nothing is written. Implementations must make Update atomic with
// respect to other Update calls so interleaved writers never lose updates.
type Storage interface {
	// Load returns a snapshot of the current state
	Load(ctx context.Context) (*model.State, error)

	// Update applies fn to the current state and persists the result
	Update(ctx context.Context, fn func(state *model.State) error) error

	// Close releases backend resources
	Close() error
}

// Persisted keys, one per logical value
const (
	KeySession     = "nexus_user"
	KeyUsers       = "nexus_users_db"
	KeyTotalVisits = "nexus_total_visits"
	KeyOfficialURL = "nexus_official_url"
	KeyChatHistory = "nexus_chat_history"
	KeyPreferences = "nexus_preferences"
)

// Keys lists every persisted key
func Keys() []string {
	return []string{KeySession, KeyUsers, KeyTotalVisits, KeyOfficialURL, KeyChatHistory, KeyPreferences}
}
