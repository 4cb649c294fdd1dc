package voice

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Consumer string

const (
	ConsumerCommand    Consumer = "command"
	ConsumerSOSTrigger Consumer = "sos-trigger"
	ConsumerWakeWord   Consumer = "wake-word"
	ConsumerMeter      Consumer = "meter"
)

// consumers in descending priority.
var consumers = []Consumer{ConsumerCommand, ConsumerSOSTrigger, ConsumerWakeWord, ConsumerMeter}

func (c Consumer) rank() int {
	for i, candidate := range consumers {
		if candidate == c {
			return i
		}
	}
	return len(consumers)
}

// passive consumers are resumed by the arbiter itself once the microphone
// frees up.
func (c Consumer) passive() bool {
	return c != ConsumerCommand
}

type Hooks struct {
	Stop   func()
	Resume func()
}

type ArbiterSnapshot struct {
	Holder     Consumer
	Speaking   bool
	DialogOpen bool
	Wanted     []Consumer
}

// Arbiter decides which consumer may hold the microphone. Hooks are always
// invoked without the arbiter lock held.
type Arbiter struct {
	mu         sync.Mutex
	hooks      map[Consumer]Hooks
	wanted     map[Consumer]bool
	holder     Consumer
	speaking   bool
	dialogOpen bool
	onChange   func(ArbiterSnapshot)
	log        *logrus.Entry
}

func NewArbiter(onChange func(ArbiterSnapshot), log *logrus.Entry) *Arbiter {
	return &Arbiter{
		hooks:    make(map[Consumer]Hooks),
		wanted:   make(map[Consumer]bool),
		onChange: onChange,
		log:      orDiscard(log),
	}
}

func (a *Arbiter) Register(c Consumer, hooks Hooks) {
	a.mu.Lock()
	a.hooks[c] = hooks
	a.mu.Unlock()
}

func (a *Arbiter) CanActivate(c Consumer) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canActivateLocked(c)
}

func (a *Arbiter) canActivateLocked(c Consumer) bool {
	if a.speaking {
		return false
	}
	if a.dialogOpen && c == ConsumerWakeWord {
		return false
	}
	if a.holder == "" || a.holder == c {
		return true
	}
	return c.rank() < a.holder.rank()
}

// Acquire grants the microphone to c and synchronously stops a lower
// priority holder before returning.
func (a *Arbiter) Acquire(c Consumer) error {
	a.mu.Lock()
	if !a.canActivateLocked(c) {
		holder := a.holder
		speaking := a.speaking
		a.mu.Unlock()

		a.log.WithFields(logrus.Fields{
			"consumer": c,
			"holder":   holder,
			"speaking": speaking,
		}).Debug("Microphone request denied")
		return ErrMicrophoneBusy
	}

	a.wanted[c] = true
	loser := a.holder
	a.holder = c
	stop := a.hooks[loser].Stop
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if loser != "" && loser != c {
		a.log.WithFields(logrus.Fields{
			"consumer":  c,
			"preempted": loser,
		}).Debug("Microphone preempted")
		if stop != nil {
			stop()
		}
	}
	a.changed(snapshot)
	return nil
}

// Release frees the microphone if c holds it and lets a waiting passive
// consumer resume.
func (a *Arbiter) Release(c Consumer) {
	a.mu.Lock()
	if a.holder != c {
		a.mu.Unlock()
		return
	}
	a.holder = ""
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	a.changed(snapshot)
	a.resume()
}

func (a *Arbiter) SetWanted(c Consumer, wanted bool) {
	a.mu.Lock()
	a.wanted[c] = wanted
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	a.changed(snapshot)
	if wanted {
		a.resume()
	}
}

func (a *Arbiter) Wanted(c Consumer) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wanted[c]
}

// SetSpeaking(true) stops whichever consumer holds the microphone.
func (a *Arbiter) SetSpeaking(speaking bool) {
	a.mu.Lock()
	if a.speaking == speaking {
		a.mu.Unlock()
		return
	}
	a.speaking = speaking

	var stop func()
	if speaking && a.holder != "" {
		stop = a.hooks[a.holder].Stop
		a.holder = ""
	}
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if stop != nil {
		stop()
	}
	a.changed(snapshot)
	if !speaking {
		a.resume()
	}
}

func (a *Arbiter) SetDialogOpen(open bool) {
	a.mu.Lock()
	if a.dialogOpen == open {
		a.mu.Unlock()
		return
	}
	a.dialogOpen = open

	var stop func()
	if open && a.holder == ConsumerWakeWord {
		stop = a.hooks[ConsumerWakeWord].Stop
		a.holder = ""
	}
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if stop != nil {
		stop()
	}
	a.changed(snapshot)
	if !open {
		a.resume()
	}
}

func (a *Arbiter) Holder() Consumer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holder
}

func (a *Arbiter) Snapshot() ArbiterSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Arbiter) snapshotLocked() ArbiterSnapshot {
	snapshot := ArbiterSnapshot{
		Holder:     a.holder,
		Speaking:   a.speaking,
		DialogOpen: a.dialogOpen,
	}
	for _, c := range consumers {
		if a.wanted[c] {
			snapshot.Wanted = append(snapshot.Wanted, c)
		}
	}
	return snapshot
}

// resume hands a free microphone to the highest priority passive consumer
// that still wants it.
func (a *Arbiter) resume() {
	a.mu.Lock()
	if a.speaking || a.holder != "" {
		a.mu.Unlock()
		return
	}

	var next func()
	var picked Consumer
	for _, c := range consumers {
		if !c.passive() || !a.wanted[c] || !a.canActivateLocked(c) {
			continue
		}
		if hooks, ok := a.hooks[c]; ok && hooks.Resume != nil {
			next = hooks.Resume
			picked = c
			break
		}
	}
	a.mu.Unlock()

	if next != nil {
		a.log.WithField("consumer", picked).Debug("Resuming microphone consumer")
		next()
	}
}

func (a *Arbiter) changed(snapshot ArbiterSnapshot) {
	if a.onChange != nil {
		a.onChange(snapshot)
	}
}
