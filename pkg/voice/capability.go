package voice

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type RecognizerCallbacks struct {
	OnStart  func()
	OnResult func(transcript string, final bool)
	OnError  func(code string)
	OnEnd    func()
}

// Recognizer is one continuous recognition handle. Start may fail
// synchronously; later failures arrive through OnError.
type Recognizer interface {
	Start() error
	Stop()
	Abort()
}

type SpeechInput interface {
	CreateSession(languageTag string, cb RecognizerCallbacks) (Recognizer, error)
}

type PermissionRequester interface {
	RequestMicrophone(ctx context.Context) (bool, error)
}

type UtteranceCallbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(code string)
}

type Utterance interface {
	Cancel()
}

type Synthesizer interface {
	Speak(text, languageTag string, cb UtteranceCallbacks) (Utterance, error)
}

type Navigator interface {
	Navigate(path string)
}

// LevelSource delivers byte frequency frames from the microphone analyser.
type LevelSource interface {
	Open(onFrame func(bins []byte)) error
	Close()
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

func orDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
