package voice

import (
	"math"
	"sync"
)

// NormalizeLevel maps the average bin magnitude to 0..100 with 1.5x gain.
func NormalizeLevel(bins []byte) int {
	if len(bins) == 0 {
		return 0
	}

	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	average := float64(sum) / float64(len(bins))
	return int(math.Min(100, average/128*100*1.5))
}

type LevelMeter struct {
	mu      sync.Mutex
	source  LevelSource
	active  bool
	gen     uint64
	level   int
	onLevel func(level int)
	allowed func() bool
}

func NewLevelMeter(source LevelSource, onLevel func(level int)) *LevelMeter {
	return &LevelMeter{source: source, onLevel: onLevel}
}

// SetAllowed installs the microphone gate checked by Start.
func (m *LevelMeter) SetAllowed(allowed func() bool) {
	m.mu.Lock()
	m.allowed = allowed
	m.mu.Unlock()
}

// Start opens the level source. A Stop that lands while the source is being
// opened wins and the source is closed again.
func (m *LevelMeter) Start() error {
	m.mu.Lock()
	if m.source == nil {
		m.mu.Unlock()
		return ErrRecognitionUnsupported
	}
	if m.active {
		m.mu.Unlock()
		return nil
	}
	if m.allowed != nil && !m.allowed() {
		m.mu.Unlock()
		return ErrMicrophoneBusy
	}
	m.active = true
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	if err := m.source.Open(m.frame); err != nil {
		m.mu.Lock()
		if m.gen == gen {
			m.active = false
		}
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	stopped := m.gen != gen
	reopened := m.active
	m.mu.Unlock()
	if stopped {
		if !reopened {
			m.source.Close()
		}
		return ErrMicrophoneBusy
	}
	return nil
}

func (m *LevelMeter) Stop() {
	m.mu.Lock()
	wasActive := m.active
	m.active = false
	m.gen++
	m.level = 0
	m.mu.Unlock()

	if wasActive {
		m.source.Close()
		if m.onLevel != nil {
			m.onLevel(0)
		}
	}
}

func (m *LevelMeter) frame(bins []byte) {
	level := NormalizeLevel(bins)

	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.level = level
	m.mu.Unlock()

	if m.onLevel != nil {
		m.onLevel(level)
	}
}

func (m *LevelMeter) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *LevelMeter) Level() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}
