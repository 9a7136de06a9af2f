package model

// Capability is a credit-consuming studio module
type Capability string

const (
	CapabilityChat   Capability = "chat"
	CapabilityCanvas Capability = "canvas"
	CapabilityVoice  Capability = "voice"
	CapabilityLens   Capability = "lens"
)

// Fixed per-request prices
const (
	CostChat   = 1
	CostLens   = 3
	CostVoice  = 2
	CostCanvas = 5
)

// Cost returns the number of credits one request to the module consumes
func (c Capability) Cost() int {
	switch c {
	case CapabilityChat:
		return CostChat
	case CapabilityCanvas:
		return CostCanvas
	case CapabilityVoice:
		return CostVoice
	case CapabilityLens:
		return CostLens
	default:
		return 0
	}
}

// Capabilities lists all modules in console order
func Capabilities() []Capability {
	return []Capability{CapabilityChat, CapabilityCanvas, CapabilityVoice, CapabilityLens}
}

// Image is binary image content with its media type
type Image struct {
	MIMEType string
	Data     []byte
}

// Voice is a prebuilt speech synthesis profile
type Voice struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
}
