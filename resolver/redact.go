package resolver

import "strings"

// Replacement maps a sensitive technical term to generic phrasing.
type Replacement struct {
	Term        string
	Replacement string
}

// DefaultRedactions are applied in this order.
var DefaultRedactions = []Replacement{
	{"AES-256 encryption", "industry-standard encryption"},
	{"encryption keys", "security protocols"},
	{"database schema", "system architecture"},
	{"API endpoints", "system interfaces"},
	{"SSL/TLS", "secure connections"},
	{"RSA encryption", "asymmetric encryption"},
	{"SHA-256", "cryptographic hashing"},
}

// Redactor rewrites outgoing response text. It is a pure function of its input.
type Redactor struct {
	replacements []Replacement
}

// NewRedactor returns a redactor over replacements, or DefaultRedactions when none
// are given.
func NewRedactor(replacements ...Replacement) *Redactor {
	if len(replacements) == 0 {
		replacements = DefaultRedactions
	}
	return &Redactor{replacements: append([]Replacement(nil), replacements...)}
}

// Redact applies every replacement in order. Matching is case-sensitive.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	for _, rep := range r.replacements {
		text = strings.ReplaceAll(text, rep.Term, rep.Replacement)
	}
	return text
}

// Redact applies DefaultRedactions to text.
func Redact(text string) string {
	return NewRedactor().Redact(text)
}
