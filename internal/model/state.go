package model

import "time"

// Theme is the console colour scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Preferences are per-profile display settings
type Preferences struct {
	Theme    Theme  `json:"theme"`
	Language string `json:"language"`
}

// DefaultPreferences returns the settings of a fresh profile
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeDark, Language: "fr"}
}

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the chat transcript
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// State is everything the profile persists. Session is nil when logged out.
type State struct {
	Session     *User       `json:"session,omitempty"`
	Users       []User      `json:"users"`
	TotalVisits int         `json:"totalVisits"`
	OfficialURL string      `json:"officialUrl,omitempty"`
	ChatHistory []Message   `json:"chatHistory"`
	Preferences Preferences `json:"preferences"`
}

// NewState returns an empty profile
func NewState() *State {
	return &State{
		Users:       []User{},
		ChatHistory: []Message{},
		Preferences: DefaultPreferences(),
	}
}

// FindByEmail returns the index of the directory entry with the given email, or -1
func (s *State) FindByEmail(email string) int {
	for i := range s.Users {
		if s.Users[i].HasEmail(email) {
			return i
		}
	}
	return -1
}

// UsernameTaken reports whether any directory entry uses the username
func (s *State) UsernameTaken(username string) bool {
	for i := range s.Users {
		if s.Users[i].HasUsername(username) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate freely
func (s *State) Clone() *State {
	c := &State{
		Session:     s.Session.Clone(),
		Users:       make([]User, len(s.Users)),
		TotalVisits: s.TotalVisits,
		OfficialURL: s.OfficialURL,
		ChatHistory: make([]Message, len(s.ChatHistory)),
		Preferences: s.Preferences,
	}
	for i := range s.Users {
		c.Users[i] = *s.Users[i].Clone()
	}
	copy(c.ChatHistory, s.ChatHistory)
	return c
}
