package voiceService

import (
	"CommunityCompass/internal/api/voice"
	voiceEngine "CommunityCompass/pkg/voice"
	websocketPkg "CommunityCompass/pkg/websocket"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClientSession is one connected browser: a voice engine driven through a
// websocket bridge.
type ClientSession struct {
	clientID string
	engine   *voiceEngine.Engine
	bridge   *websocketPkg.Bridge
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	commands    map[string]func()
	unsubscribe func()
	closeOnce   sync.Once
	onClose     func()
}

// Receive feeds one websocket frame from the browser into the session.
func (cs *ClientSession) Receive(data []byte) error {
	return cs.bridge.Receive(data)
}

// Done is closed once the session has been closed, for example because the
// same client connected again.
func (cs *ClientSession) Done() <-chan struct{} {
	return cs.bridge.Done()
}

func (cs *ClientSession) Engine() *voiceEngine.Engine {
	return cs.engine
}

func (cs *ClientSession) Close() {
	cs.closeOnce.Do(func() {
		cs.cancel()
		cs.unsubscribe()
		cs.bridge.Close()
		cs.engine.Close()

		if cs.onClose != nil {
			cs.onClose()
		}
		cs.log.Info("Voice session closed")
	})
}

func (s *voiceService) Connect(ctx context.Context, clientID string, conn websocketPkg.Writer) (*ClientSession, error) {
	entry := s.log.WithField("client_id", clientID)
	bridge := websocketPkg.NewBridge(conn, entry.WithField("component", "bridge"))

	opts := []voiceEngine.Option{
		voiceEngine.WithConfig(s.cfg),
		voiceEngine.WithPersistence(s.persistenceFor(clientID)),
		voiceEngine.WithLogger(entry),
		voiceEngine.WithSOSHandler(func(ev voiceEngine.SOSEvent) {
			if err := bridge.SendSOS(string(ev.Source), ev.Transcript, ev.At); err != nil {
				entry.WithFields(logrus.Fields{
					"source": ev.Source,
					"error":  err.Error(),
				}).Error("Failed to deliver SOS to client")
			}
		}),
	}
	if s.voiceRepo != nil {
		opts = append(opts, voiceEngine.WithCommandRecorder(s.recorder(clientID)))
	}

	engine := voiceEngine.NewEngine(bridge.Capabilities(), opts...)
	engine.Init(ctx)

	sessionCtx, cancel := context.WithCancel(context.Background())
	session := &ClientSession{
		clientID: clientID,
		engine:   engine,
		bridge:   bridge,
		log:      entry,
		ctx:      sessionCtx,
		cancel:   cancel,
		commands: make(map[string]func()),
	}
	session.unsubscribe = engine.Subscribe(func(state voiceEngine.EngineState) {
		if err := bridge.SendState(toStatePayload(state)); err != nil && !errors.Is(err, websocketPkg.ErrBridgeClosed) {
			entry.WithField("error", err.Error()).Warn("Failed to push voice state")
		}
	})
	session.onClose = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sessions[clientID] == session {
			delete(s.sessions, clientID)
		}
	}

	s.mu.Lock()
	previous := s.sessions[clientID]
	s.sessions[clientID] = session
	s.mu.Unlock()

	if previous != nil {
		entry.Info("Replacing existing voice session")
		previous.Close()
	}

	go bridge.Run(session.apply)

	if err := bridge.SendState(toStatePayload(engine.State())); err != nil {
		session.Close()
		return nil, err
	}

	entry.Info("Voice session connected")
	return session, nil
}

// apply runs one engine request from the browser. Failures are reported back
// over the socket.
func (cs *ClientSession) apply(env websocketPkg.Envelope) {
	var err error

	switch env.Type {
	case websocketPkg.TypeControlActivate:
		err = cs.engine.Activate(cs.ctx)
	case websocketPkg.TypeControlDeactivate:
		cs.engine.Deactivate()
	case websocketPkg.TypeControlStartListening:
		err = cs.engine.StartListening(cs.ctx)
	case websocketPkg.TypeControlStopListening:
		cs.engine.StopListening()
	case websocketPkg.TypeControlSelectLanguage:
		var lang voiceEngine.Language
		if lang, err = voiceEngine.ParseLanguage(env.Lang); err == nil {
			err = cs.engine.SelectLanguage(lang)
		}
	case websocketPkg.TypeControlReadAll:
		cs.engine.ReadAllFeatures()
	case websocketPkg.TypeControlReadFeature:
		if env.Index == nil {
			err = fmt.Errorf("%w: missing index", voiceEngine.ErrFeatureIndex)
			break
		}
		_, err = cs.engine.ReadFeature(*env.Index)
	case websocketPkg.TypeControlNavigateFeature:
		err = cs.engine.NavigateToFeature(env.Path)
	case websocketPkg.TypeControlWakeWord:
		cs.engine.EnableWakeWord(env.Enabled)
	case websocketPkg.TypeControlSOSVoice:
		cs.engine.EnableSOSVoice(env.Enabled)
	case websocketPkg.TypeControlMeter:
		cs.engine.EnableMeter(env.Enabled)
	case websocketPkg.TypeMotion:
		if env.Motion != nil {
			cs.engine.Motion(voiceEngine.Motion{X: env.Motion.X, Y: env.Motion.Y, Z: env.Motion.Z})
		}
	case websocketPkg.TypeCommandRegister:
		err = cs.register(env.Command)
	case websocketPkg.TypeCommandUnregister:
		err = cs.unregister(env.ID)
	}

	if err != nil {
		cs.log.WithFields(logrus.Fields{
			"type":  env.Type,
			"error": err.Error(),
		}).Debug("Voice request failed")
		cs.bridge.SendError(err.Error())
	}
}

// register adds a command owned by the browser. Matching it sends
// command.invoke back so the page can run its own handler.
func (cs *ClientSession) register(payload *websocketPkg.CommandPayload) error {
	if payload == nil {
		return voiceEngine.ErrEmptyKeywords
	}

	keywords := make(map[voiceEngine.Language][]string, len(payload.Keywords))
	total := 0
	for raw, phrases := range payload.Keywords {
		lang, err := voiceEngine.ParseLanguage(raw)
		if err != nil {
			return err
		}
		keywords[lang] = append(keywords[lang], phrases...)
		total += len(phrases)
	}
	if total == 0 {
		return voiceEngine.ErrEmptyKeywords
	}

	var responses map[voiceEngine.Language]string
	if len(payload.Responses) > 0 {
		responses = make(map[voiceEngine.Language]string, len(payload.Responses))
		for raw, text := range payload.Responses {
			lang, err := voiceEngine.ParseLanguage(raw)
			if err != nil {
				return err
			}
			responses[lang] = text
		}
	}

	id := payload.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, unregister := cs.engine.RegisterCommand(voiceEngine.Command{
		ID:        id,
		Keywords:  keywords,
		Responses: responses,
		Path:      payload.Path,
		Action: func() {
			if err := cs.bridge.InvokeCommand(id); err != nil && !errors.Is(err, websocketPkg.ErrBridgeClosed) {
				cs.log.WithFields(logrus.Fields{
					"command_id": id,
					"error":      err.Error(),
				}).Warn("Failed to invoke client command")
			}
		},
	})

	cs.mu.Lock()
	cs.commands[id] = unregister
	cs.mu.Unlock()

	return cs.bridge.AcceptCommand(id)
}

func (cs *ClientSession) unregister(id string) error {
	cs.mu.Lock()
	unregister, ok := cs.commands[id]
	delete(cs.commands, id)
	cs.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", voiceEngine.ErrCommandNotFound, id)
	}
	unregister()
	return nil
}

func (s *voiceService) GetSession(ctx context.Context, clientID string) (*voice.SessionResponse, error) {
	session := s.session(clientID)
	if session == nil {
		return nil, voice.ErrNoActiveSession
	}

	state := toStatePayload(session.engine.State())
	return &voice.SessionResponse{
		ClientID:    clientID,
		IsActive:    state.IsActive,
		IsListening: state.IsListening,
		IsSpeaking:  state.IsSpeaking,
		Language:    state.Language,
		LastCommand: state.LastCommand,
		Feedback:    state.Feedback,
		Microphone:  state.Microphone,
		Error:       state.Error,
	}, nil
}

// Shutdown closes every connected session.
func (s *voiceService) Shutdown() {
	s.mu.Lock()
	sessions := make([]*ClientSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

func toStatePayload(state voiceEngine.EngineState) websocketPkg.StatePayload {
	payload := websocketPkg.StatePayload{
		IsActive:          state.IsActive,
		IsListening:       state.IsListening,
		IsSpeaking:        state.IsSpeaking,
		Language:          string(state.Language),
		LastCommand:       state.LastCommand,
		Feedback:          state.Feedback,
		Microphone:        string(state.Microphone),
		WakeWordEnabled:   state.WakeWordEnabled,
		WakeWordListening: state.WakeWordListening,
		SOSVoiceEnabled:   state.SOSVoiceEnabled,
		SOSListening:      state.SOSListening,
		MeterEnabled:      state.MeterEnabled,
		MeterActive:       state.MeterActive,
		Level:             state.Level,
	}
	if state.Error != nil {
		payload.Error = state.Error.Error()
	}
	return payload
}
