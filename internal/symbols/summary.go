package symbols

import (
	"fmt"
	"strings"
)

// maxListedNames is the number of names spelled out before collapsing to a count
const maxListedNames = 3

// Summarize renders one sentence per non-empty action bucket, joined with
// "; ". Imports and exports are left out of the added/deleted sentences.
func Summarize(syms []CodeSymbol) string {
	var parts []string

	if s := describeBucket("Added", filterSymbols(syms, ActionAdded, true)); s != "" {
		parts = append(parts, s)
	}
	if s := describeBucket("Modified", filterSymbols(syms, ActionModified, false)); s != "" {
		parts = append(parts, s)
	}
	if s := describeRenames(syms); s != "" {
		parts = append(parts, s)
	}
	if s := describeBucket("Deleted", filterSymbols(syms, ActionDeleted, true)); s != "" {
		parts = append(parts, s)
	}

	return strings.Join(parts, "; ")
}

func filterSymbols(syms []CodeSymbol, action Action, skipImportExport bool) []CodeSymbol {
	var out []CodeSymbol
	for _, s := range syms {
		if s.Action != action {
			continue
		}
		if skipImportExport && (s.Type == TypeImport || s.Type == TypeExport) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// describeBucket groups symbols by type in first-seen order:
// "Added function validateEmail, 4 classes"
func describeBucket(verb string, syms []CodeSymbol) string {
	if len(syms) == 0 {
		return ""
	}

	var order []SymbolType
	byType := make(map[SymbolType][]string)
	for _, s := range syms {
		if _, ok := byType[s.Type]; !ok {
			order = append(order, s.Type)
		}
		byType[s.Type] = append(byType[s.Type], s.Name)
	}

	groups := make([]string, 0, len(order))
	for _, t := range order {
		groups = append(groups, describeNames(t, byType[t]))
	}
	return verb + " " + strings.Join(groups, ", ")
}

func describeNames(t SymbolType, names []string) string {
	switch {
	case len(names) == 1:
		return fmt.Sprintf("%s %s", t, names[0])
	case len(names) <= maxListedNames:
		return fmt.Sprintf("%s %s", plural(t), strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%d %s", len(names), plural(t))
	}
}

// describeRenames reports renames from the added side, which carries OldName
func describeRenames(syms []CodeSymbol) string {
	var pairs []string
	for _, s := range syms {
		if s.Action == ActionRenamed && s.OldName != "" {
			pairs = append(pairs, fmt.Sprintf("%s → %s", s.OldName, s.Name))
		}
	}
	switch {
	case len(pairs) == 0:
		return ""
	case len(pairs) <= maxListedNames:
		return "Renamed " + strings.Join(pairs, ", ")
	default:
		return fmt.Sprintf("Renamed %d symbols", len(pairs))
	}
}

func plural(t SymbolType) string {
	if t == TypeClass {
		return "classes"
	}
	return string(t) + "s"
}
