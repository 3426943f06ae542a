package commitmsg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"clean", "[feature] add login", "[feature] add login"},
		{"surrounding whitespace", "  \n[bugfix] fix crash on empty input \n", "[bugfix] fix crash on empty input"},
		{"fenced block", "```\n[feature] add login\n```", "[feature] add login"},
		{"fenced block with language", "```text\n[refactor] split parser\n```", "[refactor] split parser"},
		{"single line fence", "```[feature] add login```", "[feature] add login"},
		{"double quotes", `"[feature] add login"`, "[feature] add login"},
		{"single quotes", `'[bugfix] fix typo in header'`, "[bugfix] fix typo in header"},
		{"backticks", "`[feature] add login`", "[feature] add login"},
		{"mismatched quotes kept", `"[feature] add login'`, `"[feature] add login'`},
		{"extra lines dropped", "[feature] add login\n\nThis adds a login form.", "[feature] add login"},
		{"leading bullet stripped", "- " + strings.Repeat("a", 99), strings.Repeat("a", 99)},
		{"too short", "ok", Fallback},
		{"empty", "", Fallback},
		{"only fence", "```\n```", Fallback},
		{"exactly four chars", "fix!", "fix!"},
		{"exactly three chars", "fix", Fallback},
		{"nested quotes", `'"[feature] add login"'`, "[feature] add login"},
		{"quoted fence", "\"```abc def ghi\"", "abc def ghi"},
		{"quoted inside fence", "```\n\"[bugfix] fix typo\"\n```", "[bugfix] fix typo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParse_RunOnReplyFallsBack(t *testing.T) {
	raw := "1" + strings.Repeat("word", 50)
	assert.Len(t, raw, 201)
	assert.Equal(t, Fallback, Parse(raw))
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"[feature] add login",
		"```\n[feature] add login\n```",
		`"[bugfix] handle nil user"`,
		"* [refactor] move helpers\nmore text",
		"!" + strings.Repeat("x", 99),
		strings.Repeat("y", 300),
		"",
		"[feature][auth] add oauth provider",
		"添加用户登录功能",
		`'"[feature] add login"'`,
		"\"```abc def ghi\"",
		"- \"[bugfix] quoted after bullet\"",
		"```\n`[refactor] fenced and quoted`\n```",
	}
	for _, in := range inputs {
		once := Parse(in)
		assert.Equal(t, once, Parse(once), "input %q", in)
		assert.True(t, IsValid(once))
	}
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid("abc"))
	assert.True(t, IsValid("abcd"))
	assert.True(t, IsValid(strings.Repeat("a", 99)))
	assert.False(t, IsValid(strings.Repeat("a", 100)))
	assert.False(t, IsValid("two\nlines"))
}

func TestParseTagged(t *testing.T) {
	tests := []struct {
		msg  string
		want Tagged
	}{
		{"[feature] add login", Tagged{Tag: "feature", Description: "add login"}},
		{"[bugfix][api] handle timeout", Tagged{Tag: "bugfix", Scope: "api", Description: "handle timeout"}},
		{"[refactor]split module", Tagged{Tag: "refactor", Description: "split module"}},
		{"chore: update code", Tagged{Description: "chore: update code"}},
		{"  plain message ", Tagged{Description: "plain message"}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagged(tt.msg))
		})
	}
}

func TestTagged_String(t *testing.T) {
	assert.Equal(t, "[bugfix][api] handle timeout", Tagged{Tag: "bugfix", Scope: "api", Description: "handle timeout"}.String())
	assert.Equal(t, "[feature] add login", ParseTagged("[feature] add login").String())
	assert.Equal(t, "chore: update code", ParseTagged(Fallback).String())
}

func TestIsKnownTag(t *testing.T) {
	assert.True(t, IsKnownTag("feature"))
	assert.True(t, IsKnownTag("bugfix"))
	assert.True(t, IsKnownTag("refactor"))
	assert.False(t, IsKnownTag("feat"))
	assert.False(t, IsKnownTag(""))
}
