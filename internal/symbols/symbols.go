// Package symbols extracts named code symbols (functions, classes, imports...)
// touched by a unified diff. Detection is regex based and heuristic: lines it
// does not understand simply yield nothing.
package symbols

// SymbolType is the kind of a code symbol
type SymbolType string

const (
	TypeFunction  SymbolType = "function"
	TypeClass     SymbolType = "class"
	TypeInterface SymbolType = "interface"
	TypeType      SymbolType = "type"
	TypeVariable  SymbolType = "variable"
	TypeConstant  SymbolType = "constant"
	TypeImport    SymbolType = "import"
	TypeExport    SymbolType = "export"
)

// Action describes what happened to a symbol in the diff
type Action string

const (
	ActionAdded    Action = "added"
	ActionDeleted  Action = "deleted"
	ActionModified Action = "modified"
	ActionRenamed  Action = "renamed"
)

// CodeSymbol is one semantic unit changed in one file
type CodeSymbol struct {
	Name    string     `json:"name"`
	Type    SymbolType `json:"type"`
	Action  Action     `json:"action"`
	OldName string     `json:"old_name,omitempty"` // only set when Action is renamed
	File    string     `json:"file"`
}

// CodeContext is the result of symbol extraction over a whole diff
type CodeContext struct {
	Symbols []CodeSymbol `json:"symbols"`
	Summary string       `json:"summary"`
}

// maxHistoryKeywords bounds the keywords handed to the history ranker
const maxHistoryKeywords = 5

// KeywordsForHistory returns up to five function or class names, in
// extraction order, for matching against historical commit subjects.
func (c *CodeContext) KeywordsForHistory() []string {
	if c == nil {
		return nil
	}
	keywords := make([]string, 0, maxHistoryKeywords)
	for _, s := range c.Symbols {
		if s.Type != TypeFunction && s.Type != TypeClass {
			continue
		}
		keywords = append(keywords, s.Name)
		if len(keywords) == maxHistoryKeywords {
			break
		}
	}
	return keywords
}

// IsEmpty reports whether no symbols were found
func (c *CodeContext) IsEmpty() bool {
	return c == nil || len(c.Symbols) == 0
}

// symbolKey identifies a symbol independent of its action
type symbolKey struct {
	name string
	typ  SymbolType
	file string
}

func keyOf(s CodeSymbol) symbolKey {
	return symbolKey{name: s.Name, typ: s.Type, file: s.File}
}
