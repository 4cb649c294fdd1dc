package websocketPkg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CommunityCompass/pkg/voice"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrBridgeClosed       = errors.New("bridge is closed")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInboundFull        = errors.New("inbound queue is full")
)

const (
	inboundBuffer  = 256
	enqueueTimeout = 5 * time.Second
)

// Writer is the sending half of a websocket connection. Both the fiber and
// the gorilla connections satisfy it.
type Writer interface {
	WriteMessage(messageType int, data []byte) error
}

// Bridge exposes the browser on the other end of a websocket as the voice
// engine's capabilities. Replies from the browser are fed through Receive
// and delivered to the engine by Run.
type Bridge struct {
	conn    Writer
	log     *logrus.Entry
	writeMu sync.Mutex

	mu          sync.Mutex
	recognizers map[string]voice.RecognizerCallbacks
	utterances  map[string]voice.UtteranceCallbacks
	permissions map[string]chan bool
	granted     bool
	onFrame     func([]byte)

	inbound     chan Envelope
	enqueueWait time.Duration
	done        chan struct{}
	closeOnce   sync.Once
}

func NewBridge(conn Writer, log *logrus.Entry) *Bridge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bridge{
		conn:        conn,
		log:         log,
		recognizers: make(map[string]voice.RecognizerCallbacks),
		utterances:  make(map[string]voice.UtteranceCallbacks),
		permissions: make(map[string]chan bool),
		inbound:     make(chan Envelope, inboundBuffer),
		enqueueWait: enqueueTimeout,
		done:        make(chan struct{}),
	}
}

func (b *Bridge) Capabilities() voice.Capabilities {
	return voice.Capabilities{
		Input:      b,
		Output:     b,
		Permission: b,
		Navigator:  b,
		Level:      levelSource{b},
	}
}

// Receive decodes one inbound frame. Permission replies are resolved on the
// spot and everything else is queued for Run. Receive never blocks the read
// loop for long: sensor frames are dropped while the queue is full and other
// frames give up after enqueueWait.
func (b *Bridge) Receive(data []byte) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		b.SendError("malformed message")
		return fmt.Errorf("decode envelope: %w", err)
	}

	if env.Type == TypePermissionResult {
		b.resolvePermission(env.ID, env.Granted)
		return nil
	}
	if !engineBound(env.Type) && !capabilityReply(env.Type) {
		b.SendError(fmt.Sprintf("unknown message type %q", env.Type))
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}

	select {
	case <-b.done:
		return ErrBridgeClosed
	default:
	}
	if lossy(env.Type) {
		select {
		case b.inbound <- env:
		default:
			b.log.WithField("type", env.Type).Debug("Inbound queue full, dropping frame")
		}
		return nil
	}

	timer := time.NewTimer(b.enqueueWait)
	defer timer.Stop()
	select {
	case b.inbound <- env:
		return nil
	case <-b.done:
		return ErrBridgeClosed
	case <-timer.C:
		b.SendError(fmt.Sprintf("server busy, %s dropped", env.Type))
		return fmt.Errorf("%w: %s", ErrInboundFull, env.Type)
	}
}

// lossy frames are periodic samples where a newer one supersedes a lost one.
func lossy(t string) bool {
	return t == TypeMotion || t == TypeLevelFrame
}

// Run delivers queued envelopes until the bridge is closed. Capability
// replies go to the callbacks registered by the engine, engine requests go
// to handle.
func (b *Bridge) Run(handle func(Envelope)) {
	for {
		select {
		case <-b.done:
			return
		case env := <-b.inbound:
			if engineBound(env.Type) {
				handle(env)
				continue
			}
			b.deliver(env)
		}
	}
}

func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)

		b.mu.Lock()
		b.recognizers = make(map[string]voice.RecognizerCallbacks)
		b.utterances = make(map[string]voice.UtteranceCallbacks)
		b.permissions = make(map[string]chan bool)
		b.onFrame = nil
		b.mu.Unlock()
	})
}

func (b *Bridge) Done() <-chan struct{} { return b.done }

func capabilityReply(t string) bool {
	switch t {
	case TypeRecognitionStarted, TypeRecognitionResult, TypeRecognitionError,
		TypeRecognitionEnded, TypeUtteranceStarted, TypeUtteranceEnded,
		TypeUtteranceError, TypeLevelFrame:
		return true
	}
	return false
}

func (b *Bridge) deliver(env Envelope) {
	switch env.Type {
	case TypeRecognitionStarted, TypeRecognitionResult, TypeRecognitionError, TypeRecognitionEnded:
		b.mu.Lock()
		cb, ok := b.recognizers[env.ID]
		if ok && env.Type == TypeRecognitionEnded {
			delete(b.recognizers, env.ID)
		}
		b.mu.Unlock()
		if !ok {
			b.log.WithField("id", env.ID).Debug("Dropping reply for unknown recognizer")
			return
		}

		switch env.Type {
		case TypeRecognitionStarted:
			call(cb.OnStart)
		case TypeRecognitionResult:
			if cb.OnResult != nil {
				cb.OnResult(env.Transcript, env.Final)
			}
		case TypeRecognitionError:
			if cb.OnError != nil {
				cb.OnError(env.Code)
			}
		case TypeRecognitionEnded:
			call(cb.OnEnd)
		}

	case TypeUtteranceStarted, TypeUtteranceEnded, TypeUtteranceError:
		b.mu.Lock()
		cb, ok := b.utterances[env.ID]
		if ok && env.Type != TypeUtteranceStarted {
			delete(b.utterances, env.ID)
		}
		b.mu.Unlock()
		if !ok {
			b.log.WithField("id", env.ID).Debug("Dropping reply for unknown utterance")
			return
		}

		switch env.Type {
		case TypeUtteranceStarted:
			call(cb.OnStart)
		case TypeUtteranceEnded:
			call(cb.OnEnd)
		case TypeUtteranceError:
			if cb.OnError != nil {
				cb.OnError(env.Code)
			}
		}

	case TypeLevelFrame:
		b.mu.Lock()
		onFrame := b.onFrame
		b.mu.Unlock()
		if onFrame != nil {
			onFrame(toBytes(env.Bins))
		}
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func toBytes(bins []int) []byte {
	out := make([]byte, len(bins))
	for i, v := range bins {
		switch {
		case v < 0:
			out[i] = 0
		case v > 255:
			out[i] = 255
		default:
			out[i] = byte(v)
		}
	}
	return out
}

func (b *Bridge) send(env Envelope) error {
	select {
	case <-b.done:
		return ErrBridgeClosed
	default:
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", env.Type, err)
	}
	return nil
}

func (b *Bridge) sendLogged(env Envelope) {
	if err := b.send(env); err != nil && !errors.Is(err, ErrBridgeClosed) {
		b.log.WithFields(logrus.Fields{
			"type":  env.Type,
			"error": err.Error(),
		}).Warn("Failed to send websocket message")
	}
}

func (b *Bridge) SendError(message string) {
	b.sendLogged(Envelope{Type: TypeError, Error: message})
}

func (b *Bridge) SendState(state StatePayload) error {
	return b.send(Envelope{Type: TypeState, State: &state})
}

func (b *Bridge) SendSOS(source, transcript string, at time.Time) error {
	return b.send(Envelope{Type: TypeSOS, SOS: &SOSPayload{
		Source:     source,
		Transcript: transcript,
		At:         at.UnixMilli(),
	}})
}

func (b *Bridge) InvokeCommand(id string) error {
	return b.send(Envelope{Type: TypeCommandInvoke, ID: id})
}

func (b *Bridge) AcceptCommand(id string) error {
	return b.send(Envelope{Type: TypeCommandAccepted, ID: id})
}

// CreateSession implements voice.SpeechInput.
func (b *Bridge) CreateSession(languageTag string, cb voice.RecognizerCallbacks) (voice.Recognizer, error) {
	select {
	case <-b.done:
		return nil, ErrBridgeClosed
	default:
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.recognizers[id] = cb
	b.mu.Unlock()
	return &recognizer{bridge: b, id: id, lang: languageTag}, nil
}

func (b *Bridge) forgetRecognizer(id string) {
	b.mu.Lock()
	delete(b.recognizers, id)
	b.mu.Unlock()
}

type recognizer struct {
	bridge *Bridge
	id     string
	lang   string
}

func (r *recognizer) Start() error {
	if err := r.bridge.send(Envelope{Type: TypeRecognitionStart, ID: r.id, Lang: r.lang, Interim: true}); err != nil {
		r.bridge.forgetRecognizer(r.id)
		return err
	}
	return nil
}

func (r *recognizer) Stop() {
	r.bridge.sendLogged(Envelope{Type: TypeRecognitionStop, ID: r.id})
}

func (r *recognizer) Abort() {
	r.bridge.forgetRecognizer(r.id)
	r.bridge.sendLogged(Envelope{Type: TypeRecognitionAbort, ID: r.id})
}

// Speak implements voice.Synthesizer.
func (b *Bridge) Speak(text, languageTag string, cb voice.UtteranceCallbacks) (voice.Utterance, error) {
	id := uuid.NewString()
	b.mu.Lock()
	b.utterances[id] = cb
	b.mu.Unlock()

	if err := b.send(Envelope{Type: TypeUtteranceSpeak, ID: id, Text: text, Lang: languageTag}); err != nil {
		b.mu.Lock()
		delete(b.utterances, id)
		b.mu.Unlock()
		return nil, err
	}
	return &utterance{bridge: b, id: id}, nil
}

type utterance struct {
	bridge *Bridge
	id     string
}

func (u *utterance) Cancel() {
	u.bridge.mu.Lock()
	delete(u.bridge.utterances, u.id)
	u.bridge.mu.Unlock()
	u.bridge.sendLogged(Envelope{Type: TypeUtteranceCancel, ID: u.id})
}

// RequestMicrophone implements voice.PermissionRequester. A grant is
// remembered for the lifetime of the connection.
func (b *Bridge) RequestMicrophone(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.granted {
		b.mu.Unlock()
		return true, nil
	}
	id := uuid.NewString()
	reply := make(chan bool, 1)
	b.permissions[id] = reply
	b.mu.Unlock()

	forget := func() {
		b.mu.Lock()
		delete(b.permissions, id)
		b.mu.Unlock()
	}

	if err := b.send(Envelope{Type: TypePermissionAsk, ID: id}); err != nil {
		forget()
		return false, err
	}

	select {
	case granted := <-reply:
		return granted, nil
	case <-ctx.Done():
		forget()
		return false, ctx.Err()
	case <-b.done:
		return false, ErrBridgeClosed
	}
}

// resolvePermission remembers a grant even when the prompt it answers was
// already abandoned.
func (b *Bridge) resolvePermission(id string, granted bool) {
	b.mu.Lock()
	reply, ok := b.permissions[id]
	delete(b.permissions, id)
	if granted {
		b.granted = true
	}
	b.mu.Unlock()

	if !ok {
		b.log.WithField("id", id).Debug("Dropping reply for unknown permission request")
		return
	}
	reply <- granted
}

// Navigate implements voice.Navigator.
func (b *Bridge) Navigate(path string) {
	b.sendLogged(Envelope{Type: TypeNavigate, Path: path})
}

type levelSource struct {
	bridge *Bridge
}

func (l levelSource) Open(onFrame func(bins []byte)) error {
	l.bridge.mu.Lock()
	l.bridge.onFrame = onFrame
	l.bridge.mu.Unlock()

	if err := l.bridge.send(Envelope{Type: TypeLevelOpen}); err != nil {
		l.bridge.mu.Lock()
		l.bridge.onFrame = nil
		l.bridge.mu.Unlock()
		return err
	}
	return nil
}

func (l levelSource) Close() {
	l.bridge.mu.Lock()
	l.bridge.onFrame = nil
	l.bridge.mu.Unlock()
	l.bridge.sendLogged(Envelope{Type: TypeLevelClose})
}
