package response

import (
	"encoding/base64"
	"time"

	"github.com/mcoot/nexus/internal/generator"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/studio"
)

// User represents a user record in API responses
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Tier       string     `json:"tier"`
	Credits    int        `json:"credits"`
	Display    string     `json:"credits_display"`
	Unlimited  bool       `json:"unlimited"`
	Avatar     string     `json:"avatar"`
	LastActive *time.Time `json:"last_active,omitempty"`
	Registered time.Time  `json:"registered_at"`
}

// UserFromModel converts a model.User to a response User.
// Elite balances are reported as the unlimited sentinel.
func UserFromModel(u *model.User) User {
	credits := u.Credits
	if u.IsElite() {
		credits = model.UnlimitedCredits
	}
	return User{
		ID:         string(u.ID),
		Username:   u.Username,
		Email:      u.Email,
		Tier:       string(u.Tier),
		Credits:    credits,
		Display:    u.DisplayCredits(),
		Unlimited:  u.IsElite(),
		Avatar:     u.Avatar,
		LastActive: u.LastActive,
		Registered: u.RegisteredAt,
	}
}

// SessionResponse is returned by the session endpoints
type SessionResponse struct {
	User User `json:"user"`
}

// AdminUser is a directory row in the admin listing
type AdminUser struct {
	User
	Online bool `json:"online"`
}

// UsersResponse is the admin directory listing
type UsersResponse struct {
	Users []AdminUser `json:"users"`
}

// Stats is the admin aggregate view
type Stats struct {
	TotalVisits  int `json:"total_visits"`
	TotalUsers   int `json:"total_users"`
	OnlineUsers  int `json:"online_users"`
	OfflineUsers int `json:"offline_users"`
	EliteUsers   int `json:"elite_users"`
}

// StatsFromModel converts model.Stats
func StatsFromModel(s model.Stats) Stats {
	return Stats{
		TotalVisits:  s.TotalVisits,
		TotalUsers:   s.TotalUsers,
		OnlineUsers:  s.OnlineUsers,
		OfflineUsers: s.OfflineUsers,
		EliteUsers:   s.EliteUsers,
	}
}

// Message is one chat transcript entry
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageFromModel converts a model.Message
func MessageFromModel(m model.Message) Message {
	return Message{ID: m.ID, Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp}
}

// ChatResponse is the assistant reply to one prompt
type ChatResponse struct {
	Reply Message `json:"reply"`
}

// HistoryResponse is the chat transcript
type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

// HistoryFromModel converts a transcript
func HistoryFromModel(msgs []model.Message) HistoryResponse {
	out := HistoryResponse{Messages: make([]Message, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, MessageFromModel(m))
	}
	return out
}

// Artwork is a generated image, inlined as a data URL
type Artwork struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtworkFromModel converts a studio.Artwork
func ArtworkFromModel(a studio.Artwork) Artwork {
	return Artwork{ID: a.ID, Prompt: a.Prompt, Image: studio.DataURL(a.Image), CreatedAt: a.CreatedAt}
}

// GalleryResponse lists generated images, newest first
type GalleryResponse struct {
	Artworks []Artwork `json:"artworks"`
}

// Speech is synthesized audio as a base64 WAV file
type Speech struct {
	Voice      string `json:"voice"`
	Format     string `json:"format"`
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// SpeechFromModel wraps the raw PCM in a WAV container
func SpeechFromModel(s *studio.Speech) Speech {
	return Speech{
		Voice:      s.Voice,
		Format:     "wav",
		Audio:      base64.StdEncoding.EncodeToString(generator.WAV(s.PCM)),
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
	}
}

// VoicesResponse lists the available voices
type VoicesResponse struct {
	Default string        `json:"default"`
	Voices  []model.Voice `json:"voices"`
}

// AnalysisResponse is the lens module's answer
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// OfficialURLResponse is the admin-configured share URL
type OfficialURLResponse struct {
	URL string `json:"url"`
}

// ShareResponse is the share payload
type ShareResponse = billing.SharePayload

// CheckoutResponse carries the payment link
type CheckoutResponse struct {
	URL      string `json:"url"`
	Item     string `json:"item"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// SettingsResponse carries the profile preferences
type SettingsResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// SettingsFromModel converts model.Preferences
func SettingsFromModel(p model.Preferences) SettingsResponse {
	return SettingsResponse{Theme: string(p.Theme), Language: p.Language}
}

// Health is the health check payload
type Health struct {
	Status    string `json:"status"`
	Generator bool   `json:"generator"`
}
