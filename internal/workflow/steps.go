package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// StepID identifies one workflow step
type StepID string

const (
	StepStage             StepID = "stage"
	StepStageConfirm      StepID = "stage-confirm"
	StepCheck             StepID = "check"
	StepCheckBuild        StepID = "check-build"
	StepCheckLint         StepID = "check-lint"
	StepCheckTest         StepID = "check-test"
	StepCheckTypecheck    StepID = "check-typecheck"
	StepCommit            StepID = "commit"
	StepCommitConfirm     StepID = "commit-confirm"
	StepCommitInteractive StepID = "commit-interactive"
	StepPush              StepID = "push"
	StepPushConfirm       StepID = "push-confirm"
	StepPR                StepID = "pr"
)

// DefaultPreset is used when neither the command line nor the config names a workflow
const DefaultPreset = "default"

var stepDescriptions = map[StepID]string{
	StepStage:             "Stage all changes",
	StepStageConfirm:      "Stage all changes (with confirmation)",
	StepCheck:             "Run all checks",
	StepCheckBuild:        "Run build check",
	StepCheckLint:         "Run lint check",
	StepCheckTest:         "Run test check",
	StepCheckTypecheck:    "Run typecheck check",
	StepCommit:            "Generate message and commit",
	StepCommitConfirm:     "Generate message and commit (with confirmation)",
	StepCommitInteractive: "Generate message and review interactively",
	StepPush:              "Push to remote",
	StepPushConfirm:       "Push to remote (with confirmation)",
	StepPR:                "Create pull request",
}

// singleChecks maps the check-<name> steps to the check they run
var singleChecks = map[StepID]string{
	StepCheckBuild:     "build",
	StepCheckLint:      "lint",
	StepCheckTest:      "test",
	StepCheckTypecheck: "typecheck",
}

// Presets are the built-in named workflows
var Presets = map[string][]StepID{
	"default": {StepStageConfirm, StepCheck, StepCommitInteractive, StepPushConfirm},
	"quick":   {StepStage, StepCommit},
	"safe":    {StepStage, StepCheck, StepCommitConfirm},
	"ci":      {StepCheck, StepCommit, StepPush},
}

// Description returns a human readable step description
func (s StepID) Description() string {
	if d, ok := stepDescriptions[s]; ok {
		return d
	}
	return string(s)
}

// IsValid reports whether s is a known step
func (s StepID) IsValid() bool {
	_, ok := stepDescriptions[s]
	return ok
}

// AllSteps returns every known step, sorted
func AllSteps() []StepID {
	steps := make([]StepID, 0, len(stepDescriptions))
	for s := range stepDescriptions {
		steps = append(steps, s)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	return steps
}

// ParseSteps converts step names into StepIDs, rejecting unknown names.
// Blank entries are ignored.
func ParseSteps(names []string) ([]StepID, error) {
	steps := make([]StepID, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		step := StepID(name)
		if !step.IsValid() {
			return nil, fmt.Errorf("unknown workflow step: %s", name)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("workflow has no steps")
	}
	return steps, nil
}

// ResolvePreset looks up a workflow by name. Presets from the configuration
// shadow the built-in ones.
func ResolvePreset(name string, custom map[string][]string) ([]StepID, error) {
	if name == "" {
		name = DefaultPreset
	}
	if names, ok := lookupCustom(custom, name); ok {
		steps, err := ParseSteps(names)
		if err != nil {
			return nil, fmt.Errorf("workflow '%s': %w", name, err)
		}
		return steps, nil
	}
	if steps, ok := Presets[name]; ok {
		return append([]StepID(nil), steps...), nil
	}
	return nil, fmt.Errorf("unknown workflow: %s", name)
}

// lookupCustom matches case-insensitively since viper lowercases map keys
func lookupCustom(custom map[string][]string, name string) ([]string, bool) {
	if names, ok := custom[name]; ok {
		return names, true
	}
	for k, names := range custom {
		if strings.EqualFold(k, name) {
			return names, true
		}
	}
	return nil, false
}

// PresetNames returns the built-in and configured workflow names, sorted
func PresetNames(custom map[string][]string) []string {
	seen := make(map[string]bool)
	var names []string
	for name := range Presets {
		seen[name] = true
		names = append(names, name)
	}
	for name := range custom {
		if !seen[strings.ToLower(name)] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
