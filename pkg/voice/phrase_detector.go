package voice

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultWakeCooldown = 3 * time.Second
	DefaultSOSCooldown  = 5 * time.Second
)

var (
	DefaultWakePhrases = []string{"hey assistant", "hi assistant", "ok assistant", "hello assistant"}
	DefaultSOSPhrases  = []string{"help me now", "help me", "help now", "i need help", "emergency", "sos"}
)

type PhraseDetectorConfig struct {
	Phrases  []string
	Language Language
	Cooldown time.Duration
	// FinalOnly ignores interim results.
	FinalOnly bool
	// StopOnDetect aborts the recognizer once onDetect returns.
	StopOnDetect     bool
	StripPunctuation bool
	Policy           RestartPolicy
}

func WakeWordConfig() PhraseDetectorConfig {
	return PhraseDetectorConfig{
		Phrases:      DefaultWakePhrases,
		Language:     LanguageEnglish,
		Cooldown:     DefaultWakeCooldown,
		StopOnDetect: true,
		Policy:       DefaultRestartPolicy(),
	}
}

func SOSTriggerConfig() PhraseDetectorConfig {
	return PhraseDetectorConfig{
		Phrases:          DefaultSOSPhrases,
		Language:         LanguageEnglish,
		Cooldown:         DefaultSOSCooldown,
		FinalOnly:        true,
		StripPunctuation: true,
		Policy:           DefaultRestartPolicy(),
	}
}

type Detection struct {
	Phrase     string
	Transcript string
}

// PhraseDetector listens passively for a fixed list of phrases and fires
// onDetect at most once per cooldown window.
type PhraseDetector struct {
	mu       sync.Mutex
	cfg      PhraseDetectorConfig
	clock    Clock
	session  *Session
	cooling  bool
	timer    Timer
	onDetect func(Detection)
	log      *logrus.Entry
}

func NewPhraseDetector(input SpeechInput, perm PermissionRequester, clock Clock, cfg PhraseDetectorConfig, onDetect func(Detection), onStatus func(SessionStatus), log *logrus.Entry) *PhraseDetector {
	if clock == nil {
		clock = SystemClock()
	}
	d := &PhraseDetector{
		cfg:      cfg,
		clock:    clock,
		onDetect: onDetect,
		log:      orDiscard(log),
	}
	d.session = NewSession(input, perm, clock, SessionConfig{
		Language: cfg.Language,
		Interim:  !cfg.FinalOnly,
		Policy:   cfg.Policy,
	}, SessionHooks{
		OnTranscript: d.transcript,
		OnStatus:     onStatus,
	}, d.log)
	return d
}

func (d *PhraseDetector) Start(ctx context.Context) error {
	return d.session.Start(ctx)
}

func (d *PhraseDetector) SetAllowed(allowed func() bool) {
	d.session.SetAllowed(allowed)
}

func (d *PhraseDetector) Stop() {
	d.session.Stop()
}

func (d *PhraseDetector) Status() SessionStatus {
	return d.session.Status()
}

func (d *PhraseDetector) CoolingDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cooling
}

// Close stops listening and clears any cooldown.
func (d *PhraseDetector) Close() {
	d.session.Stop()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.cooling = false
	d.mu.Unlock()
}

func (d *PhraseDetector) transcript(transcript string, final bool) {
	if d.cfg.FinalOnly && !final {
		return
	}

	text := transcript
	if d.cfg.StripPunctuation {
		text = stripPunctuation(text)
	}

	d.mu.Lock()
	if d.cooling {
		d.mu.Unlock()
		return
	}
	phrase, ok := MatchPhrase(text, d.phrases(), d.cfg.Language)
	if !ok {
		d.mu.Unlock()
		return
	}
	d.cooling = true
	d.timer = d.clock.AfterFunc(d.cfg.Cooldown, d.endCooldown)
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{
		"phrase":     phrase,
		"transcript": transcript,
	}).Info("Trigger phrase detected")

	if d.onDetect != nil {
		d.onDetect(Detection{Phrase: phrase, Transcript: transcript})
	}
	if d.cfg.StopOnDetect {
		d.session.Stop()
	}
}

func (d *PhraseDetector) phrases() []string {
	if !d.cfg.StripPunctuation {
		return d.cfg.Phrases
	}
	out := make([]string, 0, len(d.cfg.Phrases))
	for _, phrase := range d.cfg.Phrases {
		out = append(out, strings.TrimSpace(stripPunctuation(phrase)))
	}
	return out
}

func (d *PhraseDetector) endCooldown() {
	d.mu.Lock()
	d.cooling = false
	d.timer = nil
	d.mu.Unlock()
}
