// Package security cleans user supplied free text before it is stored.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer interface {
	// Sanitize strips markup and returns plain text. Script and style
	// contents are dropped entirely.
	Sanitize(s string) string
}

type textSanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() Sanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 8

// Sanitize repeats policy-then-unescape until the text stops changing, so
// markup hidden behind entities is stripped once it is decoded. Input that
// never settles is returned in its escaped form.
func (s *textSanitizer) Sanitize(in string) string {
	if in == "" {
		return ""
	}
	out := in
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	return strings.TrimSpace(s.policy.Sanitize(out))
}

// Nop returns input unchanged.
type Nop struct{}

func (Nop) Sanitize(s string) string { return s }
