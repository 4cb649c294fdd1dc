package voice

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type hookLog struct {
	mu     sync.Mutex
	events []string
}

func (l *hookLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *hookLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}

func newTestArbiter(t *testing.T) (*Arbiter, *hookLog) {
	t.Helper()
	a := NewArbiter(nil, nil)
	log := &hookLog{}
	for _, c := range consumers {
		c := c
		hooks := Hooks{Stop: func() { log.add("stop " + string(c)) }}
		if c.passive() {
			hooks.Resume = func() {
				log.add("resume " + string(c))
				require.NoError(t, a.Acquire(c))
			}
		}
		a.Register(c, hooks)
	}
	return a, log
}

func TestArbiterPriority(t *testing.T) {
	a, log := newTestArbiter(t)

	require.NoError(t, a.Acquire(ConsumerMeter))
	require.NoError(t, a.Acquire(ConsumerWakeWord))
	require.Equal(t, []string{"stop meter"}, log.take())

	require.ErrorIs(t, a.Acquire(ConsumerMeter), ErrMicrophoneBusy)

	require.NoError(t, a.Acquire(ConsumerSOSTrigger))
	require.NoError(t, a.Acquire(ConsumerCommand))
	require.Equal(t, []string{"stop wake-word", "stop sos-trigger"}, log.take())
	require.Equal(t, ConsumerCommand, a.Holder())

	require.False(t, a.CanActivate(ConsumerSOSTrigger))
	require.True(t, a.CanActivate(ConsumerCommand))
}

func TestArbiterReleaseResumesHighestWanted(t *testing.T) {
	a, log := newTestArbiter(t)

	a.SetWanted(ConsumerMeter, true)
	require.Equal(t, []string{"resume meter"}, log.take())
	require.Equal(t, ConsumerMeter, a.Holder())

	a.SetWanted(ConsumerWakeWord, true)
	require.Empty(t, log.take())

	require.NoError(t, a.Acquire(ConsumerCommand))
	require.Equal(t, []string{"stop meter"}, log.take())

	a.SetWanted(ConsumerCommand, false)
	a.Release(ConsumerCommand)
	require.Equal(t, []string{"resume wake-word"}, log.take())
	require.Equal(t, ConsumerWakeWord, a.Holder())
}

func TestArbiterReleaseByNonHolderIsIgnored(t *testing.T) {
	a, log := newTestArbiter(t)
	require.NoError(t, a.Acquire(ConsumerCommand))

	a.Release(ConsumerMeter)
	require.Equal(t, ConsumerCommand, a.Holder())
	require.Empty(t, log.take())
}

func TestArbiterSpeakingBlocksEveryone(t *testing.T) {
	a, log := newTestArbiter(t)
	a.SetWanted(ConsumerSOSTrigger, true)
	log.take()

	a.SetSpeaking(true)
	require.Equal(t, []string{"stop sos-trigger"}, log.take())
	require.Equal(t, Consumer(""), a.Holder())
	for _, c := range consumers {
		require.False(t, a.CanActivate(c), c)
	}
	require.ErrorIs(t, a.Acquire(ConsumerCommand), ErrMicrophoneBusy)

	a.SetSpeaking(false)
	require.Equal(t, []string{"resume sos-trigger"}, log.take())
	require.Equal(t, ConsumerSOSTrigger, a.Holder())
}

func TestArbiterDialogSuppressesWakeWord(t *testing.T) {
	a, log := newTestArbiter(t)
	a.SetWanted(ConsumerWakeWord, true)
	a.SetWanted(ConsumerMeter, true)
	require.Equal(t, []string{"resume wake-word"}, log.take())

	a.SetDialogOpen(true)
	require.Equal(t, []string{"stop wake-word"}, log.take())
	require.False(t, a.CanActivate(ConsumerWakeWord))
	require.True(t, a.CanActivate(ConsumerMeter))

	require.NoError(t, a.Acquire(ConsumerCommand))
	a.SetWanted(ConsumerCommand, false)
	a.Release(ConsumerCommand)
	require.Equal(t, []string{"resume meter"}, log.take())
	require.Equal(t, ConsumerMeter, a.Holder())

	a.SetDialogOpen(false)
	require.True(t, a.CanActivate(ConsumerWakeWord))
	require.NoError(t, a.Acquire(ConsumerWakeWord))
	require.Equal(t, []string{"stop meter"}, log.take())
}

func TestArbiterSnapshot(t *testing.T) {
	var snapshots []ArbiterSnapshot
	a := NewArbiter(func(s ArbiterSnapshot) { snapshots = append(snapshots, s) }, nil)

	a.SetWanted(ConsumerMeter, true)
	a.SetWanted(ConsumerSOSTrigger, true)
	require.NoError(t, a.Acquire(ConsumerCommand))

	snapshot := a.Snapshot()
	require.Equal(t, ConsumerCommand, snapshot.Holder)
	require.Equal(t, []Consumer{ConsumerCommand, ConsumerSOSTrigger, ConsumerMeter}, snapshot.Wanted)
	require.Equal(t, snapshot, snapshots[len(snapshots)-1])
}
