package voice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type detections struct {
	mu  sync.Mutex
	got []Detection
}

func (d *detections) add(det Detection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, det)
}

func (d *detections) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.got)
}

func (d *detections) last() Detection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.got[len(d.got)-1]
}

func TestWakeWordCooldown(t *testing.T) {
	input := &fakeInput{}
	clock := newFakeClock()
	seen := &detections{}
	d := NewPhraseDetector(input, nil, clock, WakeWordConfig(), seen.add, nil, nil)

	listen := func() *fakeRecognizer {
		require.NoError(t, d.Start(context.Background()))
		rec := input.last()
		rec.cb.OnStart()
		return rec
	}

	rec := listen()
	rec.result("Hey Assistant", false)
	require.Equal(t, 1, seen.count())
	require.Equal(t, "hey assistant", seen.last().Phrase)
	require.Equal(t, "Hey Assistant", seen.last().Transcript)
	require.True(t, d.CoolingDown())

	// detection stops the recognizer
	require.Equal(t, StateIdle, d.Status().State)
	require.Equal(t, int32(1), rec.aborted.Load())

	rec = listen()
	clock.Advance(time.Second)
	rec.result("hey assistant", true)
	require.Equal(t, 1, seen.count())

	clock.Advance(2 * time.Second)
	require.False(t, d.CoolingDown())
	rec.result("ok assistant open the map", true)
	require.Equal(t, 2, seen.count())
	require.Equal(t, "ok assistant", seen.last().Phrase)
}

func TestWakeWordIgnoresOtherSpeech(t *testing.T) {
	input := &fakeInput{}
	seen := &detections{}
	d := NewPhraseDetector(input, nil, newFakeClock(), WakeWordConfig(), seen.add, nil, nil)

	require.NoError(t, d.Start(context.Background()))
	input.last().cb.OnStart()
	input.last().result("what is the weather", true)

	require.Zero(t, seen.count())
	require.Equal(t, StateListening, d.Status().State)
}

func TestSOSTriggerFinalOnly(t *testing.T) {
	input := &fakeInput{}
	clock := newFakeClock()
	seen := &detections{}
	d := NewPhraseDetector(input, nil, clock, SOSTriggerConfig(), seen.add, nil, nil)

	require.NoError(t, d.Start(context.Background()))
	rec := input.last()
	rec.cb.OnStart()

	rec.result("help me", false)
	require.Zero(t, seen.count())

	rec.result("Please, help me!", true)
	require.Equal(t, 1, seen.count())
	require.Equal(t, "help me", seen.last().Phrase)

	// SOS keeps listening through detections
	require.Equal(t, StateListening, d.Status().State)

	rec.result("S.O.S.", true)
	require.Equal(t, 1, seen.count())

	clock.Advance(DefaultSOSCooldown)
	rec.result("S.O.S.", true)
	require.Equal(t, 2, seen.count())
	require.Equal(t, "sos", seen.last().Phrase)
}

func TestSOSTriggerPrefersFirstListedPhrase(t *testing.T) {
	input := &fakeInput{}
	seen := &detections{}
	d := NewPhraseDetector(input, nil, newFakeClock(), SOSTriggerConfig(), seen.add, nil, nil)

	require.NoError(t, d.Start(context.Background()))
	input.last().cb.OnStart()
	input.last().result("help me now", true)

	require.Equal(t, "help me now", seen.last().Phrase)
}

func TestPhraseDetectorCloseClearsCooldown(t *testing.T) {
	input := &fakeInput{}
	clock := newFakeClock()
	seen := &detections{}
	d := NewPhraseDetector(input, nil, clock, SOSTriggerConfig(), seen.add, nil, nil)

	require.NoError(t, d.Start(context.Background()))
	input.last().cb.OnStart()
	input.last().result("emergency", true)
	require.True(t, d.CoolingDown())

	d.Close()
	require.False(t, d.CoolingDown())
	require.Equal(t, StateIdle, d.Status().State)
	require.Empty(t, clock.pendingDelays())
}
