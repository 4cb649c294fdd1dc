package voice

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultShakeThreshold = 15.0
	DefaultShakeWindow    = time.Second
	DefaultShakeCount     = 3
)

type Motion struct {
	X, Y, Z float64
}

// ShakeDetector counts acceleration jumps above Threshold. Count jumps, each
// within Window of the previous one, make a shake.
type ShakeDetector struct {
	Threshold float64
	Window    time.Duration
	Count     int

	mu        sync.Mutex
	last      *Motion
	shakes    int
	lastShake time.Time
}

func NewShakeDetector() *ShakeDetector {
	return &ShakeDetector{
		Threshold: DefaultShakeThreshold,
		Window:    DefaultShakeWindow,
		Count:     DefaultShakeCount,
	}
}

// Observe feeds one sample and reports whether it completed a shake.
func (d *ShakeDetector) Observe(m Motion, at time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.last
	d.last = &m
	if prev == nil {
		return false
	}

	delta := math.Abs(m.X-prev.X) + math.Abs(m.Y-prev.Y) + math.Abs(m.Z-prev.Z)
	if delta <= d.Threshold {
		return false
	}

	if at.Sub(d.lastShake) > d.Window {
		d.shakes = 0
	}
	d.shakes++
	d.lastShake = at

	if d.shakes >= d.Count {
		d.shakes = 0
		return true
	}
	return false
}

func (d *ShakeDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = nil
	d.shakes = 0
	d.lastShake = time.Time{}
}
