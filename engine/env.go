package engine

import (
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	"regexp"
	"strings"
)

var variableRefPattern = regexp.MustCompile(`\$[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z0-9_]+)*`)

// Environment is the immutable variable scope of one pipeline run. "trigger"
// holds the original inbound record; "step<N>_output" holds the recorded
// output of step N. Steps never mutate an environment; recording an output
// yields a new one.
type Environment struct {
	vars map[string]any
}

func NewEnvironment(trigger definitions.Record) *Environment {
	return &Environment{
		vars: map[string]any{"trigger": map[string]any(trigger)},
	}
}

// WithOutput returns a copy of the environment extended with the output of
// one step, under both its positional name and, when set, the step's own
// output variable.
func (e *Environment) WithOutput(stepOrder int, outputVariable string, value any) *Environment {
	vars := make(map[string]any, len(e.vars)+2)
	for k, v := range e.vars {
		vars[k] = v
	}
	vars[fmt.Sprintf("step%d_output", stepOrder)] = value
	if outputVariable != "" {
		vars[outputVariable] = value
	}
	return &Environment{vars: vars}
}

// Resolve looks up a "$variable" reference, optionally followed by a dotted
// path into nested values, e.g. "$trigger.device.id".
func (e *Environment) Resolve(ref string) (any, bool) {
	if !strings.HasPrefix(ref, "$") {
		return ref, true
	}
	path := strings.Split(strings.TrimPrefix(ref, "$"), ".")
	value, ok := e.vars[path[0]]
	if !ok {
		return nil, false
	}
	for _, part := range path[1:] {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// ResolveInput materializes a step's input record from its inputMapping. An
// empty mapping passes the trigger record through unchanged.
func (e *Environment) ResolveInput(inputMapping map[string]string) definitions.Record {
	if len(inputMapping) == 0 {
		if trigger, ok := e.vars["trigger"].(map[string]any); ok {
			return definitions.Record(trigger)
		}
		return definitions.Record{}
	}
	input := make(definitions.Record, len(inputMapping))
	for name, ref := range inputMapping {
		if value, ok := e.Resolve(ref); ok {
			input[name] = value
		}
	}
	return input
}

// ExpandString replaces every "$variable.path" reference in a template with
// its resolved value. Unresolvable references are left as written.
func (e *Environment) ExpandString(template string) string {
	return variableRefPattern.ReplaceAllStringFunc(template, func(ref string) string {
		if value, ok := e.Resolve(ref); ok {
			return fmt.Sprint(value)
		}
		return ref
	})
}

// Snapshot exposes the scope for expression evaluation. The returned map is
// a copy; expression code cannot reach back into the environment.
func (e *Environment) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(e.vars))
	for k, v := range e.vars {
		snapshot[k] = v
	}
	return snapshot
}
