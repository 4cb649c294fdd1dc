package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Speech resolves when its utterance ends. Cancellation resolves with a nil
// error.
type Speech struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newSpeech() *Speech {
	return &Speech{done: make(chan struct{})}
}

func (s *Speech) resolve(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

func (s *Speech) Done() <-chan struct{} { return s.done }

func (s *Speech) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Speech) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// whenDone runs fn on a new goroutine once s resolves.
func (s *Speech) whenDone(fn func(err error)) {
	go func() {
		<-s.done
		fn(s.err)
	}()
}

type SynthesisError struct {
	Code string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %s", e.Code)
}

type utterance struct {
	speech    *Speech
	handle    Utterance
	cancelled bool
}

// SpeechOutput keeps at most one utterance outstanding. onSpeaking observes
// every transition of IsSpeaking and is called before the synthesizer starts.
type SpeechOutput struct {
	mu         sync.Mutex
	synth      Synthesizer
	current    *utterance
	onSpeaking func(speaking bool)
	log        *logrus.Entry
}

func NewSpeechOutput(synth Synthesizer, onSpeaking func(speaking bool), log *logrus.Entry) *SpeechOutput {
	return &SpeechOutput{
		synth:      synth,
		onSpeaking: onSpeaking,
		log:        orDiscard(log),
	}
}

func (o *SpeechOutput) Speak(text string, lang Language) *Speech {
	next := &utterance{speech: newSpeech()}

	if o.synth == nil {
		next.speech.resolve(ErrSynthesisUnsupported)
		return next.speech
	}

	o.mu.Lock()
	prev := o.current
	if prev != nil {
		prev.cancelled = true
	}
	o.current = next
	o.mu.Unlock()

	if prev != nil {
		if prev.handle != nil {
			prev.handle.Cancel()
		}
		prev.speech.resolve(nil)
	} else {
		o.setSpeaking(true)
	}

	handle, err := o.synth.Speak(text, lang.SpeechTag(), UtteranceCallbacks{
		OnEnd: func() { o.finish(next, nil) },
		OnError: func(code string) {
			o.mu.Lock()
			cancelled := next.cancelled
			o.mu.Unlock()

			if cancelled || code == "canceled" || code == "interrupted" {
				o.finish(next, nil)
				return
			}
			o.finish(next, &SynthesisError{Code: code})
		},
	})
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"language": lang,
			"error":    err.Error(),
		}).Warn("Speech synthesis failed to start")
		o.finish(next, fmt.Errorf("speak: %w", err))
		return next.speech
	}

	o.mu.Lock()
	next.handle = handle
	cancelled := next.cancelled
	o.mu.Unlock()

	if cancelled && handle != nil {
		handle.Cancel()
	}
	return next.speech
}

func (o *SpeechOutput) Cancel() {
	o.mu.Lock()
	current := o.current
	o.current = nil
	if current != nil {
		current.cancelled = true
	}
	o.mu.Unlock()

	if current == nil {
		return
	}
	if current.handle != nil {
		current.handle.Cancel()
	}
	current.speech.resolve(nil)
	o.setSpeaking(false)
}

func (o *SpeechOutput) IsSpeaking() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil
}

func (o *SpeechOutput) finish(u *utterance, err error) {
	o.mu.Lock()
	wasCurrent := o.current == u
	if wasCurrent {
		o.current = nil
	}
	o.mu.Unlock()

	u.speech.resolve(err)
	if wasCurrent {
		o.setSpeaking(false)
	}
}

func (o *SpeechOutput) setSpeaking(speaking bool) {
	if o.onSpeaking != nil {
		o.onSpeaking(speaking)
	}
}
