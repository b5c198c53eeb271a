// Package contact turns a contact form submission into a mailto link.
package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// DefaultRecipient is used when no recipient is configured.
const DefaultRecipient = "your-email@example.com"

var (
	ErrMissingFrom    = errors.New("from address is required")
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingBody    = errors.New("message body is required")
)

// Message is a contact form submission.
type Message struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate checks that every field is present and From parses as an address.
func (m Message) Validate() error {
	var errs []error
	if strings.TrimSpace(m.From) == "" {
		errs = append(errs, ErrMissingFrom)
	} else if _, err := mail.ParseAddress(m.From); err != nil {
		errs = append(errs, fmt.Errorf("invalid from address %q: %w", m.From, err))
	}
	if strings.TrimSpace(m.Subject) == "" {
		errs = append(errs, ErrMissingSubject)
	}
	if strings.TrimSpace(m.Body) == "" {
		errs = append(errs, ErrMissingBody)
	}
	return errors.Join(errs...)
}

// Compose validates m and returns the mailto link addressed to to.
func Compose(to string, m Message) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	return Link(to, m.Subject, m.Body), nil
}

// Link builds mailto:to?subject=..&body=.. without validation.
func Link(to, subject, body string) string {
	if strings.TrimSpace(to) == "" {
		to = DefaultRecipient
	}
	return "mailto:" + to + "?subject=" + EscapeComponent(subject) + "&body=" + EscapeComponent(body)
}

// EscapeComponent percent-encodes s the way browsers encode a URI component:
// everything except ASCII letters, digits and -_.!~*'() is escaped, and
// spaces become %20.
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0F])
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
