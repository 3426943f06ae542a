// Package commitmsg normalizes raw model replies into one-line commit messages.
package commitmsg

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback replaces replies that cannot be turned into a valid message
const Fallback = "chore: update code"

const (
	minLength = 3   // exclusive
	maxLength = 100 // exclusive
)

// Known category tags
const (
	TagFeature  = "feature"
	TagBugfix   = "bugfix"
	TagRefactor = "refactor"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```(?:[\\w+-]*[ \\t]*\\r?\\n)?")
	fenceCloseRe = regexp.MustCompile("\\r?\\n?```$")
	taggedRe     = regexp.MustCompile(`^\[([^\[\]]+)\](?:\[([^\[\]]+)\])?\s*(.*)$`)
)

// Parse turns a raw model reply into a single-line commit message. It never
// fails: replies that stay invalid after sanitizing yield Fallback.
func Parse(raw string) string {
	msg := unwrap(raw)
	if IsValid(msg) {
		return msg
	}

	if sanitized := unwrap(stripLeadingNonLetter(msg)); IsValid(sanitized) {
		return sanitized
	}
	return Fallback
}

// unwrap peels fences, quotes and trailing lines until none are left, so
// nested wrappers such as a quoted fence come off together.
func unwrap(msg string) string {
	for {
		next := strings.TrimSpace(msg)
		next = stripFence(next)
		next = stripQuotes(next)
		next = firstLine(next)
		if next == msg {
			return msg
		}
		msg = next
	}
}

// IsValid reports whether msg is a usable one-line commit message
func IsValid(msg string) bool {
	n := utf8.RuneCountInString(msg)
	return n > minLength && n < maxLength && !strings.ContainsAny(msg, "\r\n")
}

func stripFence(msg string) string {
	if !strings.HasPrefix(msg, "```") {
		return msg
	}
	msg = fenceOpenRe.ReplaceAllString(msg, "")
	msg = fenceCloseRe.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}

func stripQuotes(msg string) string {
	if len(msg) < 2 {
		return msg
	}
	first, last := msg[0], msg[len(msg)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return strings.TrimSpace(msg[1 : len(msg)-1])
	}
	return msg
}

func firstLine(msg string) string {
	if idx := strings.IndexAny(msg, "\r\n"); idx >= 0 {
		msg = msg[:idx]
	}
	return strings.TrimSpace(msg)
}

func stripLeadingNonLetter(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if size == 0 || unicode.IsLetter(r) {
		return msg
	}
	return strings.TrimSpace(msg[size:])
}

// Tagged is a message split into its bracket tag, optional scope and description
type Tagged struct {
	Tag         string `json:"tag,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Description string `json:"description"`
}

// ParseTagged splits "[tag][scope] description". Messages without the
// bracket form only populate Description.
func ParseTagged(msg string) Tagged {
	msg = strings.TrimSpace(msg)
	m := taggedRe.FindStringSubmatch(msg)
	if m == nil {
		return Tagged{Description: msg}
	}
	return Tagged{
		Tag:         strings.TrimSpace(m[1]),
		Scope:       strings.TrimSpace(m[2]),
		Description: strings.TrimSpace(m[3]),
	}
}

// String renders the message back into bracket form
func (t Tagged) String() string {
	if t.Tag == "" {
		return t.Description
	}
	var b strings.Builder
	b.WriteString("[" + t.Tag + "]")
	if t.Scope != "" {
		b.WriteString("[" + t.Scope + "]")
	}
	if t.Description != "" {
		b.WriteString(" " + t.Description)
	}
	return b.String()
}

// IsKnownTag reports whether tag is one of feature, bugfix or refactor
func IsKnownTag(tag string) bool {
	switch tag {
	case TagFeature, TagBugfix, TagRefactor:
		return true
	}
	return false
}
