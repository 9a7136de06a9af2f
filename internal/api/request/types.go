package request

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChatRequest is the request body for the chat module
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// CanvasRequest is the request body for image generation
type CanvasRequest struct {
	Prompt string `json:"prompt"`
}

// VoiceRequest is the request body for speech synthesis.
// An empty voice selects the default.
type VoiceRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// LensRequest is the request body for image analysis.
// Image is a data URL or raw base64.
type LensRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt,omitempty"`
}

// OfficialURLRequest sets the share URL. Empty restores the default.
type OfficialURLRequest struct {
	URL string `json:"url"`
}

// SettingsRequest updates preferences; omitted fields are left unchanged
type SettingsRequest struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}
