package billing

import (
	"context"
	"net/url"
)

// Subscription terms
const (
	ItemName = "Nexus IA Elite Subscription"
	Amount   = "9.99"
	Currency = "EUR"

	checkoutBase = "https://www.paypal.com/cgi-bin/webscr"
)

// Share payload texts
const (
	ShareTitle = "Nexus IA"
	ShareText  = "Discover Nexus IA, the all-in-one AI studio: chat, images, voice and vision."
)

// OfficialURLSource provides the admin-configured share URL
type OfficialURLSource interface {
	OfficialURL(ctx context.Context) (string, error)
}

// SharePayload is what the share action hands to the platform
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Service builds payment links and share payloads. Payment is never
// confirmed; opening the link does not change the tier.
type Service struct {
	recipient string
	urls      OfficialURLSource
}

// New creates a new billing service
func New(recipient string, urls OfficialURLSource) *Service {
	return &Service{recipient: recipient, urls: urls}
}

// CheckoutURL returns the payment link for the elite subscription
func (s *Service) CheckoutURL() string {
	q := url.Values{}
	q.Set("cmd", "_xclick")
	q.Set("business", s.recipient)
	q.Set("item_name", ItemName)
	q.Set("amount", Amount)
	q.Set("currency_code", Currency)
	return checkoutBase + "?" + q.Encode()
}

// Share returns the share payload pointing at the official URL
func (s *Service) Share(ctx context.Context) (SharePayload, error) {
	u, err := s.urls.OfficialURL(ctx)
	if err != nil {
		return SharePayload{}, err
	}
	return SharePayload{Title: ShareTitle, Text: ShareText, URL: u}, nil
}
