package compiler

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func namedStep(name string) definitions.WorkflowStep {
	return definitions.WorkflowStep{StepName: name, StepType: definitions.StepDelay}
}

func orders(steps []definitions.WorkflowStep) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.StepOrder
	}
	return out
}

func names(steps []definitions.WorkflowStep) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.StepName
	}
	return out
}

func TestStepList_CommitRenumbersContiguously(t *testing.T) {
	list := NewStepList(namedStep("a"), namedStep("b"), namedStep("c"))
	list.Remove(1)
	list.Add(namedStep("d"))
	list.Insert(0, namedStep("e"))

	committed := list.Commit()
	assert.Equal(t, []int{1, 2, 3, 4}, orders(committed))
	assert.Equal(t, []string{"e", "a", "c", "d"}, names(committed))
}

func TestStepList_Move(t *testing.T) {
	list := NewStepList(namedStep("a"), namedStep("b"), namedStep("c"))
	list.Move(2, 0)

	committed := list.Commit()
	assert.Equal(t, []string{"c", "a", "b"}, names(committed))
	assert.Equal(t, []int{1, 2, 3}, orders(committed))
}

func TestStepList_OutOfRangeEditsIgnored(t *testing.T) {
	list := NewStepList(namedStep("a"))
	list.Remove(5)
	list.Move(0, 9)

	committed := list.Commit()
	require.Len(t, committed, 1)
	assert.Equal(t, "a", committed[0].StepName)
}

func TestStepList_CommitDoesNotAliasInput(t *testing.T) {
	original := []definitions.WorkflowStep{namedStep("a")}
	list := NewStepList(original...)
	committed := list.Commit()
	committed[0].StepName = "mutated"
	assert.Equal(t, "a", original[0].StepName)
}
