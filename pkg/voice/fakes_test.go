package voice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and fires due timers in order, without the
// clock lock held.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// pendingDelays lists the delays of timers that have neither fired nor been
// stopped.
func (c *fakeClock) pendingDelays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.delay)
		}
	}
	return out
}

type fakeRecognizer struct {
	lang     string
	cb       RecognizerCallbacks
	startErr error
	started  atomic.Int32
	stopped  atomic.Int32
	aborted  atomic.Int32
	auto     bool
}

func (r *fakeRecognizer) Start() error {
	r.started.Add(1)
	if r.startErr != nil {
		return r.startErr
	}
	if r.auto {
		r.cb.OnStart()
	}
	return nil
}

func (r *fakeRecognizer) Stop()  { r.stopped.Add(1) }
func (r *fakeRecognizer) Abort() { r.aborted.Add(1) }

func (r *fakeRecognizer) result(transcript string, final bool) { r.cb.OnResult(transcript, final) }
func (r *fakeRecognizer) fail(code string)                     { r.cb.OnError(code) }
func (r *fakeRecognizer) end()                                 { r.cb.OnEnd() }

type fakeInput struct {
	mu          sync.Mutex
	recognizers []*fakeRecognizer
	createErr   error
	startErr    error
	autoStart   bool
}

func (f *fakeInput) CreateSession(lang string, cb RecognizerCallbacks) (Recognizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	r := &fakeRecognizer{lang: lang, cb: cb, startErr: f.startErr, auto: f.autoStart}
	f.recognizers = append(f.recognizers, r)
	return r, nil
}

func (f *fakeInput) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recognizers)
}

func (f *fakeInput) last() *fakeRecognizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.recognizers) == 0 {
		return nil
	}
	return f.recognizers[len(f.recognizers)-1]
}

func (f *fakeInput) setStartErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

type fakeUtterance struct {
	text      string
	lang      string
	cb        UtteranceCallbacks
	cancelled atomic.Int32
}

func (u *fakeUtterance) Cancel() { u.cancelled.Add(1) }

type fakeSynth struct {
	mu         sync.Mutex
	utterances []*fakeUtterance
	err        error
	autoEnd    bool
}

func (s *fakeSynth) Speak(text, lang string, cb UtteranceCallbacks) (Utterance, error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	u := &fakeUtterance{text: text, lang: lang, cb: cb}
	s.utterances = append(s.utterances, u)
	auto := s.autoEnd
	s.mu.Unlock()

	if auto {
		cb.OnEnd()
	}
	return u, nil
}

func (s *fakeSynth) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.utterances))
	for _, u := range s.utterances {
		out = append(out, u.text)
	}
	return out
}

func (s *fakeSynth) last() *fakeUtterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.utterances) == 0 {
		return nil
	}
	return s.utterances[len(s.utterances)-1]
}

type fakePermission struct {
	calls     atomic.Int32
	cancelled atomic.Int32
	granted   bool
	err       error
	gate      chan struct{}
}

func (p *fakePermission) RequestMicrophone(ctx context.Context) (bool, error) {
	p.calls.Add(1)
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			p.cancelled.Add(1)
			return false, ctx.Err()
		}
	}
	return p.granted, p.err
}

type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fakeLevel struct {
	mu      sync.Mutex
	onFrame func([]byte)
	opened  atomic.Int32
	closed  atomic.Int32
}

func (l *fakeLevel) Open(onFrame func([]byte)) error {
	l.mu.Lock()
	l.onFrame = onFrame
	l.mu.Unlock()
	l.opened.Add(1)
	return nil
}

func (l *fakeLevel) Close() { l.closed.Add(1) }

func (l *fakeLevel) frame(bins []byte) {
	l.mu.Lock()
	fn := l.onFrame
	l.mu.Unlock()
	if fn != nil {
		fn(bins)
	}
}

type failingPersistence struct {
	readErr  error
	writeErr error
}

func (p failingPersistence) Read(context.Context, string) (string, bool, error) {
	return "", false, p.readErr
}

func (p failingPersistence) Write(context.Context, string, string) error { return p.writeErr }

func (p failingPersistence) Remove(context.Context, string) error { return p.writeErr }

var errBoom = errors.New("boom")
