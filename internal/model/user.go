package model

import (
	"strconv"
	"strings"
	"time"
)

// UserID uniquely identifies a user record
type UserID string

// Tier is a user's entitlement level
type Tier string

const (
	TierBasic Tier = "basic"
	TierElite Tier = "elite"
)

// UnlimitedCredits is the credit value shown for elite users.
// Only presentation code should compare against it; the ledger checks the tier.
const UnlimitedCredits = 999999

// User is a directory record. The active session holds a copy of one of these.
type User struct {
	ID           UserID     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Tier         Tier       `json:"tier"`
	Credits      int        `json:"credits"`
	Avatar       string     `json:"avatar"`
	LastActive   *time.Time `json:"lastActive,omitempty"`
	RegisteredAt time.Time  `json:"registeredAt"`
}

// IsElite reports whether the user bypasses credit metering
func (u *User) IsElite() bool {
	return u.Tier == TierElite
}

// HasEmail compares emails case-insensitively
func (u *User) HasEmail(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// HasUsername compares usernames case-insensitively
func (u *User) HasUsername(username string) bool {
	return strings.EqualFold(u.Username, username)
}

// DisplayCredits renders the balance, using the infinity sign for elite users
func (u *User) DisplayCredits() string {
	if u.IsElite() || u.Credits == UnlimitedCredits {
		return "∞"
	}
	return strconv.Itoa(u.Credits)
}

// Clone returns a deep copy
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastActive != nil {
		t := *u.LastActive
		c.LastActive = &t
	}
	return &c
}
