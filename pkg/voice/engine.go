package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	textListening     = Localized{LanguageEnglish: "Listening...", LanguageBengali: "শুনছি..."}
	textNotUnderstood = Localized{LanguageEnglish: "Command not understood", LanguageBengali: "কমান্ড বোঝা যায়নি"}
	textExecuting     = Localized{LanguageEnglish: "Executing command...", LanguageBengali: "কমান্ড কার্যকর হচ্ছে..."}
	textLanguageSet   = Localized{LanguageEnglish: "Language set to English", LanguageBengali: "ভাষা বাংলা করা হয়েছে"}
	textActivated     = Localized{LanguageEnglish: "Voice assistant activated. Say a command.", LanguageBengali: "ভয়েস অ্যাসিস্ট্যান্ট চালু হয়েছে। একটি কমান্ড বলুন।"}
	textFeatures      = Localized{LanguageEnglish: "Available features:", LanguageBengali: "উপলব্ধ ফিচার:"}
)

type EngineState struct {
	IsActive          bool
	IsListening       bool
	IsSpeaking        bool
	Language          Language
	LastCommand       string
	Feedback          string
	Error             error
	Microphone        Consumer
	WakeWordEnabled   bool
	WakeWordListening bool
	SOSVoiceEnabled   bool
	SOSListening      bool
	MeterEnabled      bool
	MeterActive       bool
	Level             int
}

// Engine is the voice command engine for one client. It owns the command
// listening session, the wake word and SOS phrase detectors, the level
// meter and speech output, all arbitrated over one microphone.
type Engine struct {
	cfg       Config
	caps      Capabilities
	clock     Clock
	store     Persistence
	log       *logrus.Entry
	onCommand func(CommandEvent)
	onSOS     func(SOSEvent)

	registry *Registry
	arbiter  *Arbiter
	output   *SpeechOutput
	command  *Session
	wake     *PhraseDetector
	sos      *PhraseDetector
	meter    *LevelMeter
	shake    *ShakeDetector

	mu          sync.Mutex
	closed      bool
	active      bool
	language    Language
	feedback    string
	lastCommand string
	err         error
	level       int
	epoch       uint64
	resumeTimer Timer
	shakeOn     bool
	subscribers map[int]func(EngineState)
	nextSub     int
}

func NewEngine(caps Capabilities, opts ...Option) *Engine {
	e := &Engine{
		cfg:         DefaultConfig(),
		caps:        caps,
		shakeOn:     true,
		subscribers: make(map[int]func(EngineState)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.clock == nil {
		e.clock = SystemClock()
	}
	e.log = orDiscard(e.log)
	if !e.cfg.Language.Valid() {
		e.cfg.Language = LanguageEnglish
	}
	if e.cfg.Catalog == nil {
		e.cfg.Catalog = DefaultCatalog()
	}
	if e.cfg.StopPhrases == nil {
		e.cfg.StopPhrases = DefaultStopPhrases
	}
	e.language = e.cfg.Language

	e.registry = NewRegistry(e.cfg.Catalog, NewCustomizations(e.store, e.component("registry")), e.component("registry"))
	e.arbiter = NewArbiter(func(ArbiterSnapshot) { e.emit() }, e.component("arbiter"))
	e.output = NewSpeechOutput(caps.Output, e.speakingChanged, e.component("speech"))

	e.command = NewSession(caps.Input, caps.Permission, e.clock, SessionConfig{
		Language: e.language,
		Policy:   e.cfg.RestartPolicy,
	}, SessionHooks{
		OnTranscript: func(transcript string, final bool) { e.handleTranscript(transcript) },
		OnStatus:     func(status SessionStatus) { e.sessionChanged(ConsumerCommand, status) },
		Eligible:     e.IsActive,
		Allowed:      e.holds(ConsumerCommand),
	}, e.component("session"))

	e.wake = NewPhraseDetector(caps.Input, caps.Permission, e.clock, e.cfg.WakeWord,
		func(Detection) { e.wakeDetected() },
		func(status SessionStatus) { e.sessionChanged(ConsumerWakeWord, status) },
		e.component("wake-word"))

	e.sos = NewPhraseDetector(caps.Input, caps.Permission, e.clock, e.cfg.SOSTrigger,
		func(d Detection) { e.raiseSOS(SOSSourceVoice, d.Transcript) },
		func(status SessionStatus) { e.sessionChanged(ConsumerSOSTrigger, status) },
		e.component("sos-trigger"))

	e.meter = NewLevelMeter(caps.Level, e.levelChanged)
	e.wake.SetAllowed(e.holds(ConsumerWakeWord))
	e.sos.SetAllowed(e.holds(ConsumerSOSTrigger))
	e.meter.SetAllowed(e.holds(ConsumerMeter))
	e.shake = &ShakeDetector{
		Threshold: e.cfg.ShakeThreshold,
		Window:    e.cfg.ShakeWindow,
		Count:     e.cfg.ShakeCount,
	}

	e.arbiter.Register(ConsumerCommand, Hooks{Stop: e.command.Stop})
	e.arbiter.Register(ConsumerWakeWord, Hooks{
		Stop:   e.wake.Stop,
		Resume: func() { e.startPassive(ConsumerWakeWord, e.wake.Start) },
	})
	e.arbiter.Register(ConsumerSOSTrigger, Hooks{
		Stop:   e.sos.Stop,
		Resume: func() { e.startPassive(ConsumerSOSTrigger, e.sos.Start) },
	})
	e.arbiter.Register(ConsumerMeter, Hooks{
		Stop:   e.meter.Stop,
		Resume: func() { e.startPassive(ConsumerMeter, func(context.Context) error { return e.meter.Start() }) },
	})

	return e
}

// holds reports whether c still owns the microphone.
func (e *Engine) holds(c Consumer) func() bool {
	return func() bool { return e.arbiter.Holder() == c }
}

func (e *Engine) component(name string) *logrus.Entry {
	return e.log.WithField("component", name)
}

// Init loads the persisted custom phrases.
func (e *Engine) Init(ctx context.Context) {
	loaded := e.registry.LoadCustomizations(ctx)
	e.log.WithField("paths", len(loaded)).Debug("Voice command customizations loaded")
}

func (e *Engine) Registry() *Registry { return e.registry }

func (e *Engine) Arbiter() *Arbiter { return e.arbiter }

func (e *Engine) Supported() bool { return e.command.Supported() }

func (e *Engine) Activate(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.active {
		e.mu.Unlock()
		return nil
	}
	e.active = true
	e.epoch++
	epoch := e.epoch
	lang := e.language
	e.mu.Unlock()

	e.log.Info("Voice assistant activated")
	e.arbiter.SetDialogOpen(true)
	e.emit()

	speech := e.output.Speak(textActivated.In(lang), lang)
	e.resumeAfter(speech, epoch, true)
	return nil
}

func (e *Engine) Deactivate() {
	e.mu.Lock()
	wasActive := e.active
	e.active = false
	e.epoch++
	e.stopResumeLocked()
	e.feedback = ""
	e.mu.Unlock()

	e.output.Cancel()
	e.stopCommandListening()
	e.arbiter.SetDialogOpen(false)

	if wasActive {
		e.log.Info("Voice assistant deactivated")
	}
	e.emit()
}

func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) StartListening(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.stopResumeLocked()
	lang := e.language
	e.mu.Unlock()

	if !e.command.Supported() {
		e.setError(ErrRecognitionUnsupported)
		return ErrRecognitionUnsupported
	}
	if err := e.arbiter.Acquire(ConsumerCommand); err != nil {
		return err
	}

	e.setFeedback(textListening.In(lang))
	if err := e.command.Start(ctx); err != nil {
		e.arbiter.SetWanted(ConsumerCommand, false)
		e.arbiter.Release(ConsumerCommand)
		if errors.Is(err, ErrMicrophoneBusy) {
			e.setFeedback("")
			return err
		}
		e.setError(err)
		return err
	}
	return nil
}

func (e *Engine) StopListening() {
	e.mu.Lock()
	e.epoch++
	e.stopResumeLocked()
	e.feedback = ""
	e.mu.Unlock()

	e.stopCommandListening()
	e.emit()
}

func (e *Engine) stopCommandListening() {
	e.command.Stop()
	e.arbiter.SetWanted(ConsumerCommand, false)
	e.arbiter.Release(ConsumerCommand)
}

// SelectLanguage switches the recognition and reply language. A live
// command session is restarted in the new language once the confirmation
// has been spoken.
func (e *Engine) SelectLanguage(lang Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	wasListening := e.command.Status().Intent != IntentOff

	e.mu.Lock()
	e.language = lang
	e.epoch++
	epoch := e.epoch
	e.stopResumeLocked()
	active := e.active
	e.mu.Unlock()

	e.command.SetLanguage(lang)
	speech := e.output.Speak(textLanguageSet.In(lang), lang)
	if wasListening {
		e.command.Stop()
	}
	e.resumeAfter(speech, epoch, active || wasListening)
	e.emit()
	return nil
}

func (e *Engine) Language() Language {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.language
}

func (e *Engine) ReadAllFeatures() *Speech {
	lang := e.Language()
	features := e.registry.Features()

	names := make([]string, 0, len(features))
	for _, feature := range features {
		names = append(names, feature.DisplayName.In(lang))
	}
	return e.say(textFeatures.In(lang)+" "+strings.Join(names, ", "), lang)
}

func (e *Engine) ReadFeature(index int) (*Speech, error) {
	features := e.registry.Features()
	if index < 0 || index >= len(features) {
		return nil, fmt.Errorf("%w: %d", ErrFeatureIndex, index)
	}

	lang := e.Language()
	feature := features[index]
	text := feature.DisplayName.In(lang) + ". " + feature.Description.In(lang)
	return e.say(text, lang), nil
}

func (e *Engine) NavigateToFeature(path string) error {
	feature, ok := e.registry.Feature(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFeatureNotFound, path)
	}

	lang := e.Language()
	if response := feature.Response.In(lang); response != "" {
		e.setFeedback(response)
		e.say(response, lang)
	}
	e.navigate(feature.Path)
	return nil
}

func (e *Engine) RegisterCommand(cmd Command) (string, func()) {
	return e.registry.Register(cmd)
}

// say speaks text and resumes command listening afterwards when the
// assistant is active.
func (e *Engine) say(text string, lang Language) *Speech {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	e.stopResumeLocked()
	e.mu.Unlock()

	speech := e.output.Speak(text, lang)
	e.resumeAfter(speech, epoch, false)
	return speech
}

func (e *Engine) handleTranscript(transcript string) {
	if ContainsStopPhrase(transcript, e.cfg.StopPhrases) {
		e.log.WithField("transcript", transcript).Debug("Stop phrase heard")

		e.mu.Lock()
		e.epoch++
		e.stopResumeLocked()
		e.lastCommand = transcript
		e.feedback = ""
		e.mu.Unlock()

		e.output.Cancel()
		e.stopCommandListening()
		e.emit()
		return
	}

	lang := e.Language()
	cmd, ok := Match(transcript, e.registry.All(), lang)
	if !ok {
		e.mu.Lock()
		e.lastCommand = transcript
		e.feedback = textNotUnderstood.In(lang)
		e.mu.Unlock()

		e.log.WithField("transcript", transcript).Debug("No voice command matched")
		e.emit()
		return
	}

	e.mu.Lock()
	e.lastCommand = transcript
	e.epoch++
	epoch := e.epoch
	e.stopResumeLocked()
	response := cmd.ResponseFor(lang)
	if response != "" {
		e.feedback = response
	} else {
		e.feedback = textExecuting.In(lang)
	}
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"path":       cmd.Path,
		"transcript": transcript,
	}).Info("Voice command matched")

	// Speaking takes the microphone away from the command session before the
	// synthesizer starts, so no passive consumer resumes in between.
	if response != "" {
		speech := e.output.Speak(response, lang)
		e.command.Stop()
		e.resumeAfter(speech, epoch, false)
	} else {
		e.command.Stop()
		e.scheduleResume(epoch, false)
	}
	e.emit()

	e.registry.Invoke(cmd.ID)
	if cmd.Path != "" {
		e.navigate(cmd.Path)
	}

	if e.onCommand != nil {
		event := CommandEvent{
			CommandID:  cmd.ID,
			Path:       cmd.Path,
			Transcript: transcript,
			Language:   lang,
			At:         e.clock.Now(),
		}
		go e.onCommand(event)
	}
}

func (e *Engine) navigate(path string) {
	if e.caps.Navigator == nil {
		return
	}
	e.caps.Navigator.Navigate(path)
}

func (e *Engine) resumeAfter(speech *Speech, epoch uint64, force bool) {
	speech.whenDone(func(err error) {
		if err != nil {
			e.log.WithField("error", err.Error()).Warn("Speech output failed")
		}
		e.scheduleResume(epoch, force)
	})
}

// scheduleResume restarts command listening after the resume delay if the
// assistant is still active and nothing newer superseded epoch.
func (e *Engine) scheduleResume(epoch uint64, force bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.epoch != epoch || (!e.active && !force) {
		return
	}
	e.stopResumeLocked()
	e.resumeTimer = e.clock.AfterFunc(e.cfg.ResumeDelay, func() {
		e.mu.Lock()
		stale := e.closed || e.epoch != epoch || (!e.active && !force)
		e.resumeTimer = nil
		e.mu.Unlock()

		if stale || e.output.IsSpeaking() {
			return
		}
		if err := e.StartListening(context.Background()); err != nil {
			e.log.WithField("error", err.Error()).Warn("Failed to resume listening")
		}
	})
}

func (e *Engine) stopResumeLocked() {
	if e.resumeTimer != nil {
		e.resumeTimer.Stop()
		e.resumeTimer = nil
	}
}

func (e *Engine) speakingChanged(speaking bool) {
	e.arbiter.SetSpeaking(speaking)
	e.emit()
}

func (e *Engine) sessionChanged(c Consumer, status SessionStatus) {
	if status.Err != nil {
		if c == ConsumerCommand || status.State == StateIdle {
			e.setErrorQuiet(status.Err)
		}
	} else if c == ConsumerCommand && status.State == StateListening {
		e.setErrorQuiet(nil)
	}

	if status.State == StateIdle {
		if status.Err != nil && c.passive() {
			e.arbiter.SetWanted(c, false)
		}
		if c == ConsumerCommand {
			e.arbiter.SetWanted(c, false)
		}
		e.arbiter.Release(c)
	}
	e.emit()
}

func (e *Engine) startPassive(c Consumer, start func(ctx context.Context) error) {
	if e.isClosed() {
		return
	}
	if err := e.arbiter.Acquire(c); err != nil {
		return
	}
	if err := start(context.Background()); err != nil {
		if errors.Is(err, ErrMicrophoneBusy) {
			e.arbiter.Release(c)
			return
		}
		e.log.WithFields(logrus.Fields{
			"consumer": c,
			"error":    err.Error(),
		}).Warn("Microphone consumer failed to start")
		e.arbiter.SetWanted(c, false)
		e.arbiter.Release(c)
	}
}

// EnableWakeWord turns passive wake word listening on or off. It only
// listens while the arbiter grants it the microphone.
func (e *Engine) EnableWakeWord(enabled bool) {
	e.setPassive(ConsumerWakeWord, enabled, e.wake.Close)
}

func (e *Engine) EnableSOSVoice(enabled bool) {
	e.setPassive(ConsumerSOSTrigger, enabled, e.sos.Close)
}

func (e *Engine) EnableMeter(enabled bool) {
	e.setPassive(ConsumerMeter, enabled, e.meter.Stop)
}

func (e *Engine) EnableShake(enabled bool) {
	e.mu.Lock()
	e.shakeOn = enabled
	e.mu.Unlock()
	if !enabled {
		e.shake.Reset()
	}
}

func (e *Engine) setPassive(c Consumer, enabled bool, stop func()) {
	if e.isClosed() {
		return
	}
	if enabled {
		e.arbiter.SetWanted(c, true)
		return
	}
	e.arbiter.SetWanted(c, false)
	stop()
	e.arbiter.Release(c)
}

func (e *Engine) wakeDetected() {
	e.log.Info("Wake word detected")
	if err := e.Activate(context.Background()); err != nil {
		e.log.WithField("error", err.Error()).Warn("Failed to activate from wake word")
	}
}

// Motion feeds an accelerometer sample to the shake detector.
func (e *Engine) Motion(m Motion) {
	e.mu.Lock()
	enabled := e.shakeOn && !e.closed
	e.mu.Unlock()

	if enabled && e.shake.Observe(m, e.clock.Now()) {
		e.raiseSOS(SOSSourceShake, "")
	}
}

func (e *Engine) raiseSOS(source SOSSource, transcript string) {
	e.log.WithFields(logrus.Fields{
		"source":     source,
		"transcript": transcript,
	}).Warn("SOS triggered")

	if e.onSOS != nil {
		e.onSOS(SOSEvent{Source: source, Transcript: transcript, At: e.clock.Now()})
	}
}

func (e *Engine) levelChanged(level int) {
	e.mu.Lock()
	e.level = level
	e.mu.Unlock()
	e.emit()
}

func (e *Engine) setFeedback(text string) {
	e.mu.Lock()
	e.feedback = text
	e.mu.Unlock()
	e.emit()
}

func (e *Engine) setError(err error) {
	e.setErrorQuiet(err)
	e.emit()
}

func (e *Engine) setErrorQuiet(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) State() EngineState {
	command := e.command.Status()
	wake := e.wake.Status()
	sos := e.sos.Status()
	arbiter := e.arbiter.Snapshot()
	speaking := e.output.IsSpeaking()
	meterActive := e.meter.Active()

	state := EngineState{
		IsListening:       command.Active(),
		IsSpeaking:        speaking,
		Microphone:        arbiter.Holder,
		WakeWordListening: wake.Active(),
		SOSListening:      sos.Active(),
		MeterActive:       meterActive,
	}
	for _, c := range arbiter.Wanted {
		switch c {
		case ConsumerWakeWord:
			state.WakeWordEnabled = true
		case ConsumerSOSTrigger:
			state.SOSVoiceEnabled = true
		case ConsumerMeter:
			state.MeterEnabled = true
		}
	}

	e.mu.Lock()
	state.IsActive = e.active
	state.Language = e.language
	state.LastCommand = e.lastCommand
	state.Feedback = e.feedback
	state.Error = e.err
	state.Level = e.level
	e.mu.Unlock()

	return state
}

// Subscribe calls fn with the engine state after every change.
func (e *Engine) Subscribe(fn func(EngineState)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subscribers, id)
			e.mu.Unlock()
		})
	}
}

func (e *Engine) emit() {
	e.mu.Lock()
	if len(e.subscribers) == 0 {
		e.mu.Unlock()
		return
	}
	subs := make([]func(EngineState), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	state := e.State()
	for _, fn := range subs {
		fn(state)
	}
}

// Close stops every microphone consumer and speech. The engine cannot be
// used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.active = false
	e.epoch++
	e.stopResumeLocked()
	e.mu.Unlock()

	for _, c := range consumers {
		e.arbiter.SetWanted(c, false)
	}
	e.output.Cancel()
	e.command.Stop()
	e.wake.Close()
	e.sos.Close()
	e.meter.Stop()

	for _, c := range consumers {
		e.arbiter.Release(c)
	}
	e.log.Debug("Voice engine closed")
}
