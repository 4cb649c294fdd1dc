package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPathWithRestart(t *testing.T) {
	steps := []struct {
		event Event
		want  State
	}{
		{EventStart, StateStarting},
		{EventStarted, StateListening},
		{EventEnded, StateEnded},
		{EventSchedule, StateRestartPending},
		{EventRestart, StateStarting},
		{EventStarted, StateListening},
		{EventEnded, StateEnded},
		{EventFinish, StateIdle},
	}

	state := StateIdle
	for _, step := range steps {
		next, err := Transition(state, step.event)
		require.NoError(t, err, "%s --%s-->", state, step.event)
		require.Equal(t, step.want, next)
		state = next
	}
}

func TestTransitionStopAndFailFromAnyState(t *testing.T) {
	states := []State{StateIdle, StateStarting, StateListening, StateEnded, StateRestartPending}
	for _, state := range states {
		for _, event := range []Event{EventStop, EventFail} {
			next, err := Transition(state, event)
			require.NoError(t, err)
			require.Equal(t, StateIdle, next)
		}
	}
}

func TestTransitionInvalid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "idle started", state: StateIdle, event: EventStarted},
		{name: "idle restart", state: StateIdle, event: EventRestart},
		{name: "starting start", state: StateStarting, event: EventStart},
		{name: "listening start", state: StateListening, event: EventStart},
		{name: "listening schedule", state: StateListening, event: EventSchedule},
		{name: "ended started", state: StateEnded, event: EventStarted},
		{name: "pending start", state: StateRestartPending, event: EventStart},
		{name: "pending ended", state: StateRestartPending, event: EventEnded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid session transition")
			require.Equal(t, tc.state, next)
		})
	}
}

func TestStateLive(t *testing.T) {
	require.True(t, StateStarting.Live())
	require.True(t, StateListening.Live())
	require.False(t, StateIdle.Live())
	require.False(t, StateEnded.Live())
	require.False(t, StateRestartPending.Live())
}
