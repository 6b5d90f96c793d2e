package compiler

import (
	"github.com/bridgeflow/gateway/definitions"
)

// StepList is the ordered-list abstraction behind step authoring. Structural
// edits mutate the list; Commit renumbers stepOrder contiguously from 1, so
// the contiguity invariant holds by construction rather than by incremental
// index patching.
type StepList struct {
	steps []definitions.WorkflowStep
}

func NewStepList(steps ...definitions.WorkflowStep) *StepList {
	copied := make([]definitions.WorkflowStep, len(steps))
	copy(copied, steps)
	return &StepList{steps: copied}
}

func (l *StepList) Len() int {
	return len(l.steps)
}

// Add appends a step at the end of the list.
func (l *StepList) Add(step definitions.WorkflowStep) {
	l.steps = append(l.steps, step)
}

// Insert places a step before position index (0-based). An out-of-range index
// clamps to the nearest end.
func (l *StepList) Insert(index int, step definitions.WorkflowStep) {
	if index < 0 {
		index = 0
	}
	if index > len(l.steps) {
		index = len(l.steps)
	}
	l.steps = append(l.steps[:index], append([]definitions.WorkflowStep{step}, l.steps[index:]...)...)
}

// Remove deletes the step at position index (0-based); out-of-range indices
// are ignored.
func (l *StepList) Remove(index int) {
	if index < 0 || index >= len(l.steps) {
		return
	}
	l.steps = append(l.steps[:index], l.steps[index+1:]...)
}

// Move relocates the step at from to position to (both 0-based).
func (l *StepList) Move(from, to int) {
	if from < 0 || from >= len(l.steps) || to < 0 || to >= len(l.steps) || from == to {
		return
	}
	step := l.steps[from]
	rest := make([]definitions.WorkflowStep, 0, len(l.steps)-1)
	rest = append(rest, l.steps[:from]...)
	rest = append(rest, l.steps[from+1:]...)
	l.steps = append(rest[:to], append([]definitions.WorkflowStep{step}, rest[to:]...)...)
}

// Commit renumbers stepOrder 1..n in list order and returns the committed
// slice. The result has no gaps and no duplicates regardless of the edit
// history.
func (l *StepList) Commit() []definitions.WorkflowStep {
	committed := make([]definitions.WorkflowStep, len(l.steps))
	copy(committed, l.steps)
	for i := range committed {
		committed[i].StepOrder = i + 1
	}
	return committed
}
