package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type SessionStatus struct {
	State    State
	Intent   Intent
	Failures int
	Err      error
}

func (s SessionStatus) Active() bool {
	return s.State.Live()
}

type SessionConfig struct {
	Language Language
	// Interim forwards non-final results to OnTranscript as well.
	Interim bool
	Policy  RestartPolicy
}

type SessionHooks struct {
	OnTranscript func(transcript string, final bool)
	OnStatus     func(SessionStatus)
	// Eligible reports whether the owning feature still wants automatic
	// restarts. A nil Eligible always allows them.
	Eligible func() bool
	// Allowed reports whether the session may open the microphone right now.
	// It is checked under the session lock immediately before every launch.
	// A nil Allowed always allows it.
	Allowed func() bool
}

// Session drives one continuous recognizer with restart and backoff. Every
// recognizer handle gets its own sequence number so callbacks from a handle
// that was stopped or replaced are dropped.
type Session struct {
	mu     sync.Mutex
	input  SpeechInput
	perm   PermissionRequester
	clock  Clock
	cfg    SessionConfig
	hooks  SessionHooks
	log    *logrus.Entry
	state  State
	intent Intent

	gen       uint64
	handleSeq uint64
	active    uint64
	handle    Recognizer
	timer     Timer
	failures  int
	lastCode  string
	lastErr   error

	permissionGranted bool
	requesting        uint64
	cancelPrompt      context.CancelFunc
}

func NewSession(input SpeechInput, perm PermissionRequester, clock Clock, cfg SessionConfig, hooks SessionHooks, log *logrus.Entry) *Session {
	if clock == nil {
		clock = SystemClock()
	}
	if cfg.Policy == (RestartPolicy{}) {
		cfg.Policy = DefaultRestartPolicy()
	}
	if !cfg.Language.Valid() {
		cfg.Language = LanguageEnglish
	}
	return &Session{
		input:  input,
		perm:   perm,
		clock:  clock,
		cfg:    cfg,
		hooks:  hooks,
		log:    orDiscard(log),
		state:  StateIdle,
		intent: IntentOff,
	}
}

func (s *Session) Supported() bool {
	return s.input != nil
}

// Start is a no-op while a recognizer is starting, live, waiting to restart
// or waiting on the permission prompt. When the microphone permission still
// has to be asked for, Start returns as soon as the prompt is issued and the
// outcome is reported through OnStatus.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.input == nil {
		s.mu.Unlock()
		return ErrRecognitionUnsupported
	}
	if s.intent != IntentOff && (s.state != StateIdle || s.requesting == s.gen) {
		s.mu.Unlock()
		return nil
	}

	s.gen++
	gen := s.gen
	s.intent = IntentWanted
	s.failures = 0
	s.lastCode = ""
	s.lastErr = nil
	if s.perm == nil || s.permissionGranted {
		s.mu.Unlock()
		return s.launch(gen, false)
	}

	promptCtx, cancel := context.WithCancel(ctx)
	s.requesting = gen
	s.cancelPrompt = cancel
	s.mu.Unlock()

	go s.awaitPermission(promptCtx, gen)
	return nil
}

func (s *Session) awaitPermission(ctx context.Context, gen uint64) {
	granted, err := s.perm.RequestMicrophone(ctx)

	s.mu.Lock()
	if s.requesting == gen {
		s.requesting = 0
		if s.cancelPrompt != nil {
			s.cancelPrompt()
			s.cancelPrompt = nil
		}
	}
	if s.gen != gen || s.intent == IntentOff {
		s.mu.Unlock()
		s.log.Debug("Permission resolved after listening was cancelled")
		return
	}
	if err != nil || !granted {
		s.intent = IntentOff
		s.lastErr = ErrPermissionDenied
		if err != nil {
			s.lastErr = fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		status := s.statusLocked()
		s.mu.Unlock()

		s.emit(status)
		return
	}
	s.permissionGranted = true
	s.mu.Unlock()

	_ = s.launch(gen, false)
}

// Stop abandons any pending restart and aborts the live recognizer. The
// session is idle when Stop returns. A terminal error from a session that
// already went idle is kept.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateIdle && s.intent == IntentOff && s.requesting == 0 {
		s.mu.Unlock()
		return
	}

	s.gen++
	s.active = 0
	s.intent = IntentOff
	s.lastErr = nil
	s.state, _ = Transition(s.state, EventStop)
	s.stopTimerLocked()
	s.requesting = 0
	cancelPrompt := s.cancelPrompt
	s.cancelPrompt = nil
	handle := s.handle
	s.handle = nil
	status := s.statusLocked()
	s.mu.Unlock()

	if cancelPrompt != nil {
		cancelPrompt()
	}
	if handle != nil {
		handle.Abort()
	}
	s.emit(status)
}

// SetAllowed replaces the microphone gate checked before every launch.
func (s *Session) SetAllowed(allowed func() bool) {
	s.mu.Lock()
	s.hooks.Allowed = allowed
	s.mu.Unlock()
}

func (s *Session) SetLanguage(lang Language) {
	s.mu.Lock()
	s.cfg.Language = lang
	s.mu.Unlock()
}

func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) launch(gen uint64, restart bool) error {
	s.mu.Lock()
	if s.gen != gen || s.intent == IntentOff {
		s.mu.Unlock()
		return nil
	}
	if s.hooks.Allowed != nil && !s.hooks.Allowed() {
		s.gen++
		s.intent = IntentOff
		s.lastErr = nil
		s.state, _ = Transition(s.state, EventStop)
		s.timer = nil
		status := s.statusLocked()
		s.mu.Unlock()

		s.log.WithField("restart", restart).Debug("Microphone no longer granted, recognizer not launched")
		s.emit(status)
		return ErrMicrophoneBusy
	}

	event := EventStart
	if restart {
		event = EventRestart
	}
	next, err := Transition(s.state, event)
	if err != nil {
		s.mu.Unlock()
		s.log.WithField("error", err.Error()).Warn("Ignoring recognizer launch")
		return nil
	}
	s.state = next
	s.timer = nil
	s.handleSeq++
	seq := s.handleSeq
	s.active = seq
	tag := s.cfg.Language.SpeechTag()
	status := s.statusLocked()
	s.mu.Unlock()

	s.emit(status)

	handle, err := s.input.CreateSession(tag, s.callbacks(seq))
	if err == nil {
		err = handle.Start()
	}

	s.mu.Lock()
	if s.gen != gen || s.active != seq {
		s.mu.Unlock()
		if handle != nil && err == nil {
			handle.Abort()
		}
		return nil
	}

	if err == nil {
		s.handle = handle
		s.mu.Unlock()
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"restart": restart,
		"error":   err.Error(),
	}).Warn("Recognizer failed to start")

	if restart {
		s.lastErr = fmt.Errorf("restart recognizer: %w", err)
		s.state, _ = Transition(s.state, EventEnded)
		s.active = 0
		s.mu.Unlock()
		s.afterEnd(gen)
		return nil
	}

	s.state, _ = Transition(s.state, EventFail)
	s.intent = IntentOff
	s.active = 0
	s.lastErr = fmt.Errorf("start recognizer: %w", err)
	status = s.statusLocked()
	s.mu.Unlock()

	s.emit(status)
	return status.Err
}

func (s *Session) callbacks(seq uint64) RecognizerCallbacks {
	return RecognizerCallbacks{
		OnStart:  func() { s.onStart(seq) },
		OnResult: func(transcript string, final bool) { s.onResult(seq, transcript, final) },
		OnError:  func(code string) { s.onError(seq, code) },
		OnEnd:    func() { s.onEnd(seq) },
	}
}

func (s *Session) onStart(seq uint64) {
	s.mu.Lock()
	if s.active != seq {
		s.mu.Unlock()
		return
	}
	next, err := Transition(s.state, EventStarted)
	if err != nil {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.intent = IntentActive
	s.failures = 0
	s.lastCode = ""
	s.lastErr = nil
	status := s.statusLocked()
	s.mu.Unlock()

	s.emit(status)
}

func (s *Session) onResult(seq uint64, transcript string, final bool) {
	s.mu.Lock()
	live := s.active == seq && s.intent != IntentOff
	interim := s.cfg.Interim
	s.mu.Unlock()

	if !live || (!final && !interim) {
		return
	}
	if s.hooks.OnTranscript != nil {
		s.hooks.OnTranscript(transcript, final)
	}
}

func (s *Session) onError(seq uint64, code string) {
	s.mu.Lock()
	if s.active != seq {
		s.mu.Unlock()
		return
	}

	if !IsFatalCode(code) {
		s.lastCode = code
		s.lastErr = &SessionError{Code: code}
		status := s.statusLocked()
		s.mu.Unlock()

		s.log.WithField("code", code).Debug("Recoverable recognizer error")
		s.emit(status)
		return
	}

	s.gen++
	s.active = 0
	s.intent = IntentOff
	s.state, _ = Transition(s.state, EventFail)
	s.stopTimerLocked()
	if code == CodeNotAllowed || code == CodeServiceNotAllowed {
		s.permissionGranted = false
	}
	s.lastCode = code
	s.lastErr = &SessionError{Code: code, Fatal: true}
	handle := s.handle
	s.handle = nil
	status := s.statusLocked()
	s.mu.Unlock()

	s.log.WithField("code", code).Warn("Fatal recognizer error, listening disabled")
	if handle != nil {
		handle.Abort()
	}
	s.emit(status)
}

func (s *Session) onEnd(seq uint64) {
	s.mu.Lock()
	if s.active != seq {
		s.mu.Unlock()
		return
	}
	next, err := Transition(s.state, EventEnded)
	if err != nil {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.active = 0
	s.handle = nil
	gen := s.gen
	s.mu.Unlock()

	s.afterEnd(gen)
}

// afterEnd decides between a scheduled restart and going idle. The session
// must be in StateEnded for gen.
func (s *Session) afterEnd(gen uint64) {
	eligible := s.hooks.Eligible == nil || s.hooks.Eligible()

	s.mu.Lock()
	if s.gen != gen || s.state != StateEnded {
		s.mu.Unlock()
		return
	}

	if s.intent == IntentOff || !eligible {
		s.state, _ = Transition(s.state, EventFinish)
		s.intent = IntentOff
		s.lastErr = nil
		status := s.statusLocked()
		s.mu.Unlock()

		s.emit(status)
		return
	}

	s.failures++
	delay, ok := s.cfg.Policy.Next(s.failures)
	if !ok {
		s.gen++
		s.state, _ = Transition(s.state, EventGiveUp)
		s.intent = IntentOff
		s.lastErr = &SessionError{Code: s.lastCode, Exhausted: true, Attempts: s.failures}
		status := s.statusLocked()
		s.mu.Unlock()

		s.log.WithField("attempts", status.Failures).Warn("Recognizer restart attempts exhausted")
		s.emit(status)
		return
	}

	s.state, _ = Transition(s.state, EventSchedule)
	s.intent = IntentWanted
	s.timer = s.clock.AfterFunc(delay, func() {
		_ = s.launch(gen, true)
	})
	status := s.statusLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"attempt": status.Failures,
		"delay":   delay.String(),
	}).Debug("Recognizer restart scheduled")
	s.emit(status)
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) statusLocked() SessionStatus {
	return SessionStatus{
		State:    s.state,
		Intent:   s.intent,
		Failures: s.failures,
		Err:      s.lastErr,
	}
}

func (s *Session) emit(status SessionStatus) {
	if s.hooks.OnStatus != nil {
		s.hooks.OnStatus(status)
	}
}
