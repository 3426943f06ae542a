package symbols

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/huimingz/commitflow/internal/git"
)

// maxRenameDistance is the largest edit distance at which two names are
// still considered a rename of one another
const maxRenameDistance = 3

// declPattern matches a single declaration; the first capture group is the name
type declPattern struct {
	typ SymbolType
	re  *regexp.Regexp
}

// Declaration patterns are tried in order and the first match wins.
var declPatterns = []declPattern{
	// function declarations (JS/TS, Go, Python)
	{TypeFunction, regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*[<(]`)},
	{TypeFunction, regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*[\[(]`)},
	{TypeFunction, regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)},
	// arrow functions assigned to a binding
	{TypeFunction, regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*(?::\s*[^=]+)?=>`)},
	// classes
	{TypeClass, regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)},
	// interfaces
	{TypeInterface, regexp.MustCompile(`^\s*(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)`)},
	{TypeInterface, regexp.MustCompile(`^\s*type\s+([A-Za-z_]\w*)\s+interface\s*\{`)},
	// type aliases
	{TypeType, regexp.MustCompile(`^\s*(?:export\s+)?type\s+([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*=`)},
	{TypeType, regexp.MustCompile(`^\s*type\s+([A-Za-z_]\w*)\s+(?:struct\s*\{|\[?\]?\*?[A-Za-z_][\w.]*\s*$)`)},
	// upper-case constants only
	{TypeConstant, regexp.MustCompile(`^\s*(?:export\s+)?const\s+([A-Z][A-Z0-9_]*)\s*(?::[^=]+)?=`)},
}

var (
	namedImportPattern     = regexp.MustCompile(`^\s*import\s+(?:type\s+)?(?:([A-Za-z_$][\w$]*)\s*,\s*)?\{([^}]*)\}\s*from\s`)
	defaultImportPattern   = regexp.MustCompile(`^\s*import\s+(?:type\s+)?([A-Za-z_$][\w$]*)\s+from\s`)
	namespaceImportPattern = regexp.MustCompile(`^\s*import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s`)
	namedExportPattern     = regexp.MustCompile(`^\s*export\s+(?:type\s+)?\{([^}]*)\}`)
	defaultExportPattern   = regexp.MustCompile(`^\s*export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`)
	identifierPattern      = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// Extract walks a unified diff and returns the symbols added, deleted,
// renamed or modified in it, along with a one-line summary.
func Extract(diffText string) *CodeContext {
	var added, deleted []CodeSymbol
	currentFile := ""

	for _, line := range strings.Split(diffText, "\n") {
		if path, ok := git.ParseDiffHeader(strings.TrimRight(line, "\r")); ok {
			currentFile = path
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			added = append(added, parseLine(line[1:], currentFile, ActionAdded)...)
		case strings.HasPrefix(line, "-"):
			deleted = append(deleted, parseLine(line[1:], currentFile, ActionDeleted)...)
		}
	}

	all := postProcess(added, deleted)
	return &CodeContext{
		Symbols: all,
		Summary: Summarize(all),
	}
}

// parseLine returns the symbols declared on a single diff line
func parseLine(content, file string, action Action) []CodeSymbol {
	mk := func(name string, typ SymbolType) CodeSymbol {
		return CodeSymbol{Name: name, Type: typ, Action: action, File: file}
	}

	for _, p := range declPatterns {
		if m := p.re.FindStringSubmatch(content); m != nil {
			return []CodeSymbol{mk(m[1], p.typ)}
		}
	}

	if m := namedImportPattern.FindStringSubmatch(content); m != nil {
		var out []CodeSymbol
		if m[1] != "" {
			out = append(out, mk(m[1], TypeImport))
		}
		for _, name := range splitNameList(m[2]) {
			out = append(out, mk(name, TypeImport))
		}
		return out
	}
	if m := namespaceImportPattern.FindStringSubmatch(content); m != nil {
		return []CodeSymbol{mk(m[1], TypeImport)}
	}
	if m := defaultImportPattern.FindStringSubmatch(content); m != nil {
		return []CodeSymbol{mk(m[1], TypeImport)}
	}

	if m := namedExportPattern.FindStringSubmatch(content); m != nil {
		var out []CodeSymbol
		for _, name := range splitNameList(m[1]) {
			out = append(out, mk(name, TypeExport))
		}
		return out
	}
	if m := defaultExportPattern.FindStringSubmatch(content); m != nil {
		return []CodeSymbol{mk(m[1], TypeExport)}
	}

	return nil
}

// splitNameList parses "a, b as c, type D" into the local binding names
func splitNameList(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "type ")
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = strings.TrimSpace(part[idx+len(" as "):])
		}
		if identifierPattern.MatchString(part) {
			names = append(names, part)
		}
	}
	return names
}

// postProcess detects renames, then modifications, then removes duplicates
func postProcess(added, deleted []CodeSymbol) []CodeSymbol {
	detectRenames(added, deleted)

	all := make([]CodeSymbol, 0, len(added)+len(deleted))
	all = append(all, added...)
	all = append(all, deleted...)

	detectModifications(all)
	return dedupe(all)
}

// detectRenames pairs deleted and added symbols of the same type and file
// with similar names. A symbol takes part in at most one pair.
func detectRenames(added, deleted []CodeSymbol) {
	paired := make([]bool, len(added))
	for di := range deleted {
		d := &deleted[di]
		for ai := range added {
			a := &added[ai]
			if paired[ai] || a.Type != d.Type || a.File != d.File {
				continue
			}
			if !similarNames(d.Name, a.Name) {
				continue
			}
			paired[ai] = true
			d.Action = ActionRenamed
			a.Action = ActionRenamed
			a.OldName = d.Name
			break
		}
	}
}

// similarNames is deliberately loose; short generic identifiers such as
// get/set are a known false positive.
func similarNames(a, b string) bool {
	if a == b {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return levenshtein.ComputeDistance(a, b) <= maxRenameDistance
}

// detectModifications marks a (name, type, file) group as modified when it
// was both added and deleted and none of its members was renamed.
func detectModifications(all []CodeSymbol) {
	type groupState struct {
		added, deleted, renamed bool
	}
	groups := make(map[symbolKey]*groupState)
	for _, s := range all {
		g, ok := groups[keyOf(s)]
		if !ok {
			g = &groupState{}
			groups[keyOf(s)] = g
		}
		switch s.Action {
		case ActionAdded:
			g.added = true
		case ActionDeleted:
			g.deleted = true
		case ActionRenamed:
			g.renamed = true
		}
	}

	for i := range all {
		g := groups[keyOf(all[i])]
		if g.added && g.deleted && !g.renamed {
			all[i].Action = ActionModified
		}
	}
}

// dedupe keeps the first symbol for every (name, type, action, file)
func dedupe(all []CodeSymbol) []CodeSymbol {
	type fullKey struct {
		symbolKey
		action Action
	}
	seen := make(map[fullKey]bool, len(all))
	out := make([]CodeSymbol, 0, len(all))
	for _, s := range all {
		k := fullKey{symbolKey: keyOf(s), action: s.Action}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
