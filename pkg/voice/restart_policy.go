package voice

import "time"

const (
	DefaultRestartBase        = 250 * time.Millisecond
	DefaultRestartMax         = 2500 * time.Millisecond
	DefaultRestartMaxAttempts = 7
)

// RestartPolicy computes the delay before restart attempt number failures.
// failures counts consecutive ends without a successful start, starting at 1.
type RestartPolicy struct {
	Base        time.Duration
	Max         time.Duration
	MaxAttempts int
}

func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		Base:        DefaultRestartBase,
		Max:         DefaultRestartMax,
		MaxAttempts: DefaultRestartMaxAttempts,
	}
}

// Next returns false once failures reaches MaxAttempts.
func (p RestartPolicy) Next(failures int) (time.Duration, bool) {
	if failures < 1 {
		failures = 1
	}
	if p.MaxAttempts > 0 && failures >= p.MaxAttempts {
		return 0, false
	}

	delay := p.Base
	for i := 1; i < failures; i++ {
		delay *= 2
		if p.Max > 0 && delay >= p.Max {
			return p.Max, true
		}
	}
	if p.Max > 0 && delay > p.Max {
		delay = p.Max
	}
	return delay, true
}
