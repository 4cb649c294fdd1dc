package voice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type speakingRecorder struct {
	mu     sync.Mutex
	events []bool
}

func (r *speakingRecorder) record(speaking bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, speaking)
}

func (r *speakingRecorder) all() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.events...)
}

func requireResolved(t *testing.T, s *Speech) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestSpeechOutputResolvesOnEnd(t *testing.T) {
	synth := &fakeSynth{}
	rec := &speakingRecorder{}
	out := NewSpeechOutput(synth, rec.record, nil)

	speech := out.Speak("Opening Map", LanguageBengali)
	require.True(t, out.IsSpeaking())
	require.Equal(t, "bn-BD", synth.last().lang)

	synth.last().cb.OnEnd()
	require.NoError(t, requireResolved(t, speech))
	require.False(t, out.IsSpeaking())
	require.Equal(t, []bool{true, false}, rec.all())
}

func TestSpeechOutputSpeakCancelsPrevious(t *testing.T) {
	synth := &fakeSynth{}
	rec := &speakingRecorder{}
	out := NewSpeechOutput(synth, rec.record, nil)

	first := out.Speak("one", LanguageEnglish)
	firstUtterance := synth.last()
	second := out.Speak("two", LanguageEnglish)

	require.NoError(t, requireResolved(t, first))
	require.Equal(t, int32(1), firstUtterance.cancelled.Load())
	require.True(t, out.IsSpeaking())

	// The browser reports the interrupted utterance late; it must not end the
	// new one.
	firstUtterance.cb.OnError("interrupted")
	require.True(t, out.IsSpeaking())

	synth.last().cb.OnEnd()
	require.NoError(t, requireResolved(t, second))
	require.Equal(t, []bool{true, false}, rec.all())
}

func TestSpeechOutputCancelIsIdempotent(t *testing.T) {
	synth := &fakeSynth{}
	out := NewSpeechOutput(synth, nil, nil)

	speech := out.Speak("hello", LanguageEnglish)
	out.Cancel()
	out.Cancel()

	require.NoError(t, requireResolved(t, speech))
	require.Equal(t, int32(1), synth.last().cancelled.Load())
	require.False(t, out.IsSpeaking())
}

func TestSpeechOutputErrorAfterCancelIsNotAnError(t *testing.T) {
	synth := &fakeSynth{}
	out := NewSpeechOutput(synth, nil, nil)

	speech := out.Speak("hello", LanguageEnglish)
	utterance := synth.last()
	out.Cancel()
	utterance.cb.OnError("synthesis-failed")

	require.NoError(t, requireResolved(t, speech))
}

func TestSpeechOutputSynthesisErrorRejects(t *testing.T) {
	synth := &fakeSynth{}
	out := NewSpeechOutput(synth, nil, nil)

	speech := out.Speak("hello", LanguageEnglish)
	synth.last().cb.OnError("synthesis-failed")

	err := requireResolved(t, speech)
	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	require.Equal(t, "synthesis-failed", synthErr.Code)
	require.False(t, out.IsSpeaking())
}

func TestSpeechOutputStartFailure(t *testing.T) {
	out := NewSpeechOutput(&fakeSynth{err: errBoom}, nil, nil)

	err := requireResolved(t, out.Speak("hello", LanguageEnglish))
	require.ErrorIs(t, err, errBoom)
	require.False(t, out.IsSpeaking())
}

func TestSpeechOutputUnsupported(t *testing.T) {
	out := NewSpeechOutput(nil, nil, nil)

	err := requireResolved(t, out.Speak("hello", LanguageEnglish))
	require.ErrorIs(t, err, ErrSynthesisUnsupported)
	out.Cancel()
}

func TestSpeechOutputNotifiesBeforeSynthesis(t *testing.T) {
	var speakingAtCall bool
	var out *SpeechOutput
	synth := &recordingSynth{onSpeak: func() { speakingAtCall = out.IsSpeaking() }}
	recorded := false
	out = NewSpeechOutput(synth, func(speaking bool) {
		if speaking {
			recorded = true
		}
	}, nil)

	out.Speak("hello", LanguageEnglish)
	require.True(t, recorded)
	require.True(t, speakingAtCall)
}

type recordingSynth struct {
	onSpeak func()
}

func (s *recordingSynth) Speak(string, string, UtteranceCallbacks) (Utterance, error) {
	s.onSpeak()
	return &fakeUtterance{}, nil
}
