package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionResult:
		o.printUser(v.User)
	case Stats:
		o.printStats(v)
	case UsersResult:
		o.printUsers(v)
	case ChatResult:
		o.printf("%s\n", v.Reply.Content)
	case HistoryResult:
		o.printHistory(v)
	case Artwork:
		o.printf("Artwork %s: %s\n", v.ID, v.Prompt)
	case GalleryResult:
		for _, a := range v.Artworks {
			o.printf("%s  %s  %s\n", a.CreatedAt.Format(time.DateTime), a.ID, a.Prompt)
		}
	case SpeechResult:
		o.printf("Voice: %s (%d Hz, %d channel)\n", v.Voice, v.SampleRate, v.Channels)
	case VoicesResult:
		o.printVoices(v)
	case AnalysisResult:
		o.printf("%s\n", v.Analysis)
	case OfficialURLResult:
		o.printf("Official URL: %s\n", v.URL)
	case ShareResult:
		o.printf("%s\n%s\n%s\n", v.Title, v.Text, v.URL)
	case CheckoutResult:
		o.printf("%s: %s %s\n%s\n", v.Item, v.Amount, v.Currency, v.URL)
	case SettingsResult:
		o.printf("Theme: %s\nLanguage: %s\n", v.Theme, v.Language)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
		if !v.Generator {
			o.printf("Generator: not configured\n")
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
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
	Online     bool       `json:"online,omitempty"`
}

// SessionResult is the active session
type SessionResult struct {
	User User `json:"user"`
}

// Stats response type
type Stats struct {
	TotalVisits  int `json:"total_visits"`
	TotalUsers   int `json:"total_users"`
	OnlineUsers  int `json:"online_users"`
	OfflineUsers int `json:"offline_users"`
	EliteUsers   int `json:"elite_users"`
}

// UsersResult is the admin directory listing
type UsersResult struct {
	Users []User `json:"users"`
}

// Message is one chat transcript entry
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResult is the assistant reply
type ChatResult struct {
	Reply Message `json:"reply"`
}

// HistoryResult is the chat transcript
type HistoryResult struct {
	Messages []Message `json:"messages"`
}

// Artwork is a generated image with its data URL
type Artwork struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryResult lists generated images
type GalleryResult struct {
	Artworks []Artwork `json:"artworks"`
}

// SpeechResult is synthesized audio
type SpeechResult struct {
	Voice      string `json:"voice"`
	Format     string `json:"format"`
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Voice is one prebuilt voice
type Voice struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
}

// VoicesResult lists voices
type VoicesResult struct {
	Default string  `json:"default"`
	Voices  []Voice `json:"voices"`
}

// AnalysisResult is the lens answer
type AnalysisResult struct {
	Analysis string `json:"analysis"`
}

// OfficialURLResult is the share URL
type OfficialURLResult struct {
	URL string `json:"url"`
}

// ShareResult is the share payload
type ShareResult struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// CheckoutResult carries the payment link
type CheckoutResult struct {
	URL      string `json:"url"`
	Item     string `json:"item"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// SettingsResult carries preferences
type SettingsResult struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	Generator bool   `json:"generator"`
}

func (o *Output) printUser(u User) {
	o.printf("User: %s <%s> (%s)\n", u.Username, u.Email, u.ID)
	o.printf("Tier: %s\n", u.Tier)
	o.printf("Credits: %s\n", u.Display)
}

func (o *Output) printStats(s Stats) {
	o.printf("Visits:  %d\n", s.TotalVisits)
	o.printf("Users:   %d\n", s.TotalUsers)
	o.printf("Online:  %d\n", s.OnlineUsers)
	o.printf("Offline: %d\n", s.OfflineUsers)
	o.printf("Elite:   %d\n", s.EliteUsers)
}

func (o *Output) printUsers(r UsersResult) {
	if len(r.Users) == 0 {
		o.printf("No users\n")
		return
	}
	for _, u := range r.Users {
		status := "offline"
		if u.Online {
			status = "online"
		}
		o.printf("%-20s %-30s %-6s %8s  %s\n", u.Username, u.Email, u.Tier, u.Display, status)
	}
}

func (o *Output) printHistory(h HistoryResult) {
	if len(h.Messages) == 0 {
		o.printf("No messages\n")
		return
	}
	for _, m := range h.Messages {
		o.printf("[%s] %s: %s\n", m.Timestamp.Format(time.DateTime), m.Role, m.Content)
	}
}

func (o *Output) printVoices(v VoicesResult) {
	for _, voice := range v.Voices {
		marker := " "
		if strings.EqualFold(voice.Name, v.Default) {
			marker = "*"
		}
		o.printf("%s %-8s %-8s %s\n", marker, voice.Name, voice.Gender, voice.Description)
	}
}
