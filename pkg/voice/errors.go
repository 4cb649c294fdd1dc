package voice

import (
	"errors"
	"fmt"
)

var (
	ErrRecognitionUnsupported = errors.New("speech recognition is not supported")
	ErrSynthesisUnsupported   = errors.New("speech synthesis is not supported")
	ErrPermissionDenied       = errors.New("microphone permission denied")
	ErrMicrophoneBusy         = errors.New("microphone is held by another consumer")
	ErrRetriesExhausted       = errors.New("speech recognition kept stopping, restart attempts exhausted")
	ErrFeatureNotFound        = errors.New("feature not found")
	ErrFeatureIndex           = errors.New("feature index out of range")
	ErrUnknownLanguage        = errors.New("unknown language")
	ErrEmptyPhrase            = errors.New("phrase is empty")
	ErrEmptyKeywords          = errors.New("command has no keywords")
	ErrCommandNotFound        = errors.New("command not found")
	ErrEngineClosed           = errors.New("engine is closed")
)

// Recognizer error codes reported by the speech input capability.
const (
	CodeNotAllowed        = "not-allowed"
	CodeServiceNotAllowed = "service-not-allowed"
	CodeAudioCapture      = "audio-capture"
	CodeNoSpeech          = "no-speech"
	CodeAborted           = "aborted"
	CodeNetwork           = "network"
)

func IsFatalCode(code string) bool {
	switch code {
	case CodeNotAllowed, CodeServiceNotAllowed, CodeAudioCapture:
		return true
	}
	return false
}

type SessionError struct {
	Code      string
	Fatal     bool
	Exhausted bool
	Attempts  int
}

func (e *SessionError) Error() string {
	switch {
	case e.Exhausted:
		return fmt.Sprintf("%s after %d attempts (last error: %s)", ErrRetriesExhausted, e.Attempts, e.codeOrNone())
	case e.Fatal:
		return fmt.Sprintf("speech recognition failed: %s, enable microphone access to continue", e.Code)
	default:
		return fmt.Sprintf("speech recognition error: %s", e.Code)
	}
}

func (e *SessionError) Unwrap() error {
	switch {
	case e.Exhausted:
		return ErrRetriesExhausted
	case e.Code == CodeNotAllowed || e.Code == CodeServiceNotAllowed:
		return ErrPermissionDenied
	}
	return nil
}

func (e *SessionError) codeOrNone() string {
	if e.Code == "" {
		return "none"
	}
	return e.Code
}
