package identity

import "strings"

// Class is the privilege classification of an identity
type Class int

const (
	ClassStandard Class = iota
	ClassPrivileged
)

func (c Class) String() string {
	if c == ClassPrivileged {
		return "privileged"
	}
	return "standard"
}

// Policy decides whether an email is granted creator privileges
type Policy interface {
	Classify(email string) Class
}

// AllowList is a Policy that privileges a fixed set of emails
type AllowList struct {
	emails map[string]struct{}
}

// Ensure AllowList implements Policy
var _ Policy = (*AllowList)(nil)

// NewAllowList creates an allow-list; matching is case-insensitive
func NewAllowList(emails ...string) *AllowList {
	a := &AllowList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			a.emails[e] = struct{}{}
		}
	}
	return a
}

// Classify returns ClassPrivileged for allow-listed emails
func (a *AllowList) Classify(email string) Class {
	if _, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
		return ClassPrivileged
	}
	return ClassStandard
}

// IsPrivileged is a shorthand for p.Classify(email) == ClassPrivileged
func IsPrivileged(p Policy, email string) bool {
	return p.Classify(email) == ClassPrivileged
}
