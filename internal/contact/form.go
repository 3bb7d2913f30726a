// Package contact validates contact ("raven") submissions and relays them
// to a form endpoint or an SMTP server.
package contact

import (
	"regexp"
	"strings"
)

// Field names used in FieldErrors and by the form endpoint.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

const minMessageLen = 4

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is what the visitor typed into the form.
type Submission struct {
	Name    string
	Email   string
	Message string
	// Honeypot is a hidden field; bots fill it, people don't.
	Honeypot string
}

// FieldErrors maps a field name to a message shown beside the input.
type FieldErrors map[string]string

// First returns the first failing field in form order.
func (fe FieldErrors) First() string {
	for _, f := range []string{FieldName, FieldEmail, FieldMessage} {
		if _, ok := fe[f]; ok {
			return f
		}
	}
	return ""
}

// Trimmed returns a copy with surrounding whitespace removed.
func (s Submission) Trimmed() Submission {
	return Submission{
		Name:     strings.TrimSpace(s.Name),
		Email:    strings.TrimSpace(s.Email),
		Message:  strings.TrimSpace(s.Message),
		Honeypot: s.Honeypot,
	}
}

// Validate checks presence, email shape and message length.
func Validate(s Submission) FieldErrors {
	s = s.Trimmed()
	errs := FieldErrors{}
	if s.Name == "" {
		errs[FieldName] = "Please enter your name."
	}
	switch {
	case s.Email == "":
		errs[FieldEmail] = "Please enter your email address."
	case !IsValidEmail(s.Email):
		errs[FieldEmail] = "Please enter a valid email (example: you@example.com)."
	}
	if len([]rune(s.Message)) < minMessageLen {
		errs[FieldMessage] = "Please enter a brief message (4+ characters)."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
