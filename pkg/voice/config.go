package voice

import (
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultResumeDelay = 300 * time.Millisecond

type Config struct {
	Language      Language
	Catalog       []Feature
	RestartPolicy RestartPolicy
	// ResumeDelay separates the end of a spoken reply from the next listen.
	ResumeDelay time.Duration
	WakeWord    PhraseDetectorConfig
	SOSTrigger  PhraseDetectorConfig
	StopPhrases map[Language][]string

	ShakeThreshold float64
	ShakeWindow    time.Duration
	ShakeCount     int
}

func DefaultConfig() Config {
	return Config{
		Language:       LanguageEnglish,
		Catalog:        DefaultCatalog(),
		RestartPolicy:  DefaultRestartPolicy(),
		ResumeDelay:    DefaultResumeDelay,
		WakeWord:       WakeWordConfig(),
		SOSTrigger:     SOSTriggerConfig(),
		StopPhrases:    DefaultStopPhrases,
		ShakeThreshold: DefaultShakeThreshold,
		ShakeWindow:    DefaultShakeWindow,
		ShakeCount:     DefaultShakeCount,
	}
}

type Capabilities struct {
	Input      SpeechInput
	Output     Synthesizer
	Permission PermissionRequester
	Navigator  Navigator
	Level      LevelSource
}

type CommandEvent struct {
	CommandID  string
	Path       string
	Transcript string
	Language   Language
	At         time.Time
}

type SOSSource string

const (
	SOSSourceVoice SOSSource = "voice"
	SOSSourceShake SOSSource = "shake"
)

type SOSEvent struct {
	Source     SOSSource
	Transcript string
	At         time.Time
}

type Option func(*Engine)

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithPersistence(store Persistence) Option {
	return func(e *Engine) {
		e.store = store
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithCommandRecorder receives every matched command on its own goroutine.
func WithCommandRecorder(fn func(CommandEvent)) Option {
	return func(e *Engine) {
		e.onCommand = fn
	}
}

func WithSOSHandler(fn func(SOSEvent)) Option {
	return func(e *Engine) {
		e.onSOS = fn
	}
}
