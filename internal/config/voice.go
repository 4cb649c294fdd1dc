package config

import (
	"CommunityCompass/internal/middleware"
	voiceEngine "CommunityCompass/pkg/voice"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// NewVoiceConfig reads the voice engine tunables from the environment.
// Unset or invalid values keep the engine defaults.
func NewVoiceConfig(logger *logrus.Logger) voiceEngine.Config {
	cfg := voiceEngine.DefaultConfig()
	env := envReader{log: logger}

	cfg.RestartPolicy.Base = env.duration("VOICE_RESTART_BASE", cfg.RestartPolicy.Base)
	cfg.RestartPolicy.Max = env.duration("VOICE_RESTART_MAX", cfg.RestartPolicy.Max)
	cfg.RestartPolicy.MaxAttempts = env.positiveInt("VOICE_RESTART_ATTEMPTS", cfg.RestartPolicy.MaxAttempts)
	cfg.WakeWord.Policy = cfg.RestartPolicy
	cfg.SOSTrigger.Policy = cfg.RestartPolicy

	cfg.ResumeDelay = env.duration("VOICE_RESUME_DELAY", cfg.ResumeDelay)
	cfg.WakeWord.Cooldown = env.duration("VOICE_WAKE_COOLDOWN", cfg.WakeWord.Cooldown)
	cfg.SOSTrigger.Cooldown = env.duration("VOICE_SOS_COOLDOWN", cfg.SOSTrigger.Cooldown)
	cfg.WakeWord.Phrases = env.list("VOICE_WAKE_PHRASES", cfg.WakeWord.Phrases)
	cfg.SOSTrigger.Phrases = env.list("VOICE_SOS_PHRASES", cfg.SOSTrigger.Phrases)

	if raw := os.Getenv("VOICE_DEFAULT_LANGUAGE"); raw != "" {
		lang, err := voiceEngine.ParseLanguage(raw)
		if err != nil {
			env.invalid("VOICE_DEFAULT_LANGUAGE", raw, err)
		} else {
			cfg.Language = lang
		}
	}

	return cfg
}

// NewRateLimit reads the per-IP REST limit from RATE_LIMIT_RPS and
// RATE_LIMIT_BURST.
func NewRateLimit(logger *logrus.Logger) middleware.RateLimit {
	limit := middleware.DefaultRateLimit()
	env := envReader{log: logger}

	limit.Rate = rate.Limit(env.positiveInt("RATE_LIMIT_RPS", int(limit.Rate)))
	limit.Burst = env.positiveInt("RATE_LIMIT_BURST", limit.Burst)
	return limit
}

type envReader struct {
	log *logrus.Logger
}

func (r envReader) invalid(key, raw string, err error) {
	if r.log == nil {
		return
	}
	r.log.WithFields(logrus.Fields{
		"key":   key,
		"value": raw,
		"error": err.Error(),
	}).Warn("Ignoring invalid environment value")
}

func (r envReader) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err == nil && d < 0 {
		err = strconv.ErrRange
	}
	if err != nil {
		r.invalid(key, raw, err)
		return def
	}
	return d
}

func (r envReader) positiveInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err == nil && n <= 0 {
		err = strconv.ErrRange
	}
	if err != nil {
		r.invalid(key, raw, err)
		return def
	}
	return n
}

// list splits a comma separated value, dropping empty entries.
func (r envReader) list(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
