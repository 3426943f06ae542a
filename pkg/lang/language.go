// Package lang lists the languages commit descriptions can be written in.
package lang

import "strings"

// Language is a language code accepted in the configuration and on the command line
type Language string

const (
	English            Language = "en"
	ChineseSimplified  Language = "zh"
	ChineseTraditional Language = "zh-tw"
	Japanese           Language = "ja"
	Korean             Language = "ko"
)

var languages = []struct {
	code    Language
	display string
	prompt  string
}{
	{English, "English", "English"},
	{ChineseSimplified, "中文（简体）", "Simplified Chinese"},
	{ChineseTraditional, "中文（繁體）", "Traditional Chinese"},
	{Japanese, "日本語", "Japanese"},
	{Korean, "한국어", "Korean"},
}

// String returns the language code
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether l is a supported language code
func (l Language) IsValid() bool {
	for _, entry := range languages {
		if entry.code == l {
			return true
		}
	}
	return false
}

// DisplayName returns the native name of the language
func (l Language) DisplayName() string {
	for _, entry := range languages {
		if entry.code == l {
			return entry.display
		}
	}
	return string(l)
}

// PromptName returns the English name used when instructing the model.
// English yields an empty string since it needs no instruction.
func (l Language) PromptName() string {
	if l == English {
		return ""
	}
	for _, entry := range languages {
		if entry.code == l {
			return entry.prompt
		}
	}
	return ""
}

// Supported returns every supported language code in display order
func Supported() []Language {
	out := make([]Language, 0, len(languages))
	for _, entry := range languages {
		out = append(out, entry.code)
	}
	return out
}

// DefaultLanguage returns the default language
func DefaultLanguage() Language {
	return English
}

// ParseLanguage parses a language code case-insensitively, falling back to the default
func ParseLanguage(s string) Language {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l.IsValid() {
		return l
	}
	return DefaultLanguage()
}
