package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_RecordAndStep(t *testing.T) {
	var r Report
	r.Record(StepNetwork, StepApplied, "created")
	r.Record(StepHosts, StepSkipped, "dry run")
	r.Record(StepHosts, StepFailed, "permission denied")

	require.Len(t, r.Steps, 3)

	step, ok := r.Step(StepHosts)
	require.True(t, ok)
	assert.Equal(t, StepFailed, step.Status)
	assert.Equal(t, "permission denied", step.Detail)

	step, ok = r.Step(StepNetwork)
	require.True(t, ok)
	assert.Equal(t, StepApplied, step.Status)

	_, ok = r.Step(StepCompose)
	assert.False(t, ok)
}

func TestAllocation_TCPBindingsFor(t *testing.T) {
	web := ContainerRecord{ID: "c1"}
	api := ContainerRecord{ID: "c2"}
	alloc := Allocation{
		TCPBindings: []TCPBinding{
			{Container: web, Index: 0, BasePort: 5432, ListenPort: 5432},
			{Container: web, Index: 0, BasePort: 6379, ListenPort: 6379},
			{Container: api, Index: 1, BasePort: 5432, ListenPort: 5433},
			{Container: api, Index: 1, BasePort: 6379, ListenPort: 6380},
		},
	}

	got := alloc.TCPBindingsFor(1)
	require.Len(t, got, 2)
	assert.Equal(t, 5433, got[0].ListenPort)
	assert.Equal(t, 6380, got[1].ListenPort)
	assert.Empty(t, alloc.TCPBindingsFor(2))
}
