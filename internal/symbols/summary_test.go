package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		symbols  []CodeSymbol
		expected string
	}{
		{
			name:     "empty",
			symbols:  nil,
			expected: "",
		},
		{
			name: "up to three names are listed",
			symbols: []CodeSymbol{
				{Name: "a", Type: TypeFunction, Action: ActionAdded},
				{Name: "b", Type: TypeFunction, Action: ActionAdded},
				{Name: "c", Type: TypeFunction, Action: ActionAdded},
			},
			expected: "Added functions a, b, c",
		},
		{
			name: "four or more collapse into a count",
			symbols: []CodeSymbol{
				{Name: "A", Type: TypeClass, Action: ActionAdded},
				{Name: "B", Type: TypeClass, Action: ActionAdded},
				{Name: "C", Type: TypeClass, Action: ActionAdded},
				{Name: "D", Type: TypeClass, Action: ActionAdded},
			},
			expected: "Added 4 classes",
		},
		{
			name: "imports and exports excluded from added and deleted",
			symbols: []CodeSymbol{
				{Name: "React", Type: TypeImport, Action: ActionAdded},
				{Name: "App", Type: TypeExport, Action: ActionDeleted},
				{Name: "render", Type: TypeFunction, Action: ActionDeleted},
			},
			expected: "Deleted function render",
		},
		{
			name: "all buckets in order",
			symbols: []CodeSymbol{
				{Name: "old", Type: TypeFunction, Action: ActionDeleted},
				{Name: "MAX", Type: TypeConstant, Action: ActionAdded},
				{Name: "getUsers", OldName: "fetchUsers", Type: TypeFunction, Action: ActionRenamed},
				{Name: "fetchUsers", Type: TypeFunction, Action: ActionRenamed},
				{Name: "Config", Type: TypeType, Action: ActionModified},
			},
			expected: "Added constant MAX; Modified type Config; Renamed fetchUsers → getUsers; Deleted function old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summarize(tt.symbols))
		})
	}
}
