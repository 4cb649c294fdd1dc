package websocketPkg

// Server to client envelope types.
const (
	TypeRecognitionStart = "recognition.start"
	TypeRecognitionStop  = "recognition.stop"
	TypeRecognitionAbort = "recognition.abort"
	TypeUtteranceSpeak   = "utterance.speak"
	TypeUtteranceCancel  = "utterance.cancel"
	TypePermissionAsk    = "permission.request"
	TypeNavigate         = "navigate"
	TypeLevelOpen        = "level.open"
	TypeLevelClose       = "level.close"
	TypeCommandInvoke    = "command.invoke"
	TypeCommandAccepted  = "command.registered"
	TypeState            = "state"
	TypeSOS              = "sos"
	TypeError            = "error"
)

// Client to server envelope types.
const (
	TypeRecognitionStarted = "recognition.started"
	TypeRecognitionResult  = "recognition.result"
	TypeRecognitionError   = "recognition.error"
	TypeRecognitionEnded   = "recognition.ended"
	TypeUtteranceStarted   = "utterance.started"
	TypeUtteranceEnded     = "utterance.ended"
	TypeUtteranceError     = "utterance.error"
	TypePermissionResult   = "permission.result"
	TypeLevelFrame         = "level.frame"
	TypeMotion             = "motion"
	TypeCommandRegister    = "command.register"
	TypeCommandUnregister  = "command.unregister"

	TypeControlActivate        = "control.activate"
	TypeControlDeactivate      = "control.deactivate"
	TypeControlStartListening  = "control.start_listening"
	TypeControlStopListening   = "control.stop_listening"
	TypeControlSelectLanguage  = "control.select_language"
	TypeControlReadAll         = "control.read_all"
	TypeControlReadFeature     = "control.read_feature"
	TypeControlNavigateFeature = "control.navigate_feature"
	TypeControlWakeWord        = "control.wake_word"
	TypeControlSOSVoice        = "control.sos_voice"
	TypeControlMeter           = "control.meter"
)

type Envelope struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Lang       string          `json:"lang,omitempty"`
	Text       string          `json:"text,omitempty"`
	Transcript string          `json:"transcript,omitempty"`
	Final      bool            `json:"final,omitempty"`
	Interim    bool            `json:"interim,omitempty"`
	Code       string          `json:"code,omitempty"`
	Granted    bool            `json:"granted,omitempty"`
	Enabled    bool            `json:"enabled,omitempty"`
	Path       string          `json:"path,omitempty"`
	Bins       []int           `json:"bins,omitempty"`
	Index      *int            `json:"index,omitempty"`
	Command    *CommandPayload `json:"command,omitempty"`
	State      *StatePayload   `json:"state,omitempty"`
	Motion     *MotionPayload  `json:"motion,omitempty"`
	SOS        *SOSPayload     `json:"sos,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type CommandPayload struct {
	ID        string              `json:"id,omitempty"`
	Keywords  map[string][]string `json:"keywords"`
	Responses map[string]string   `json:"responses,omitempty"`
	Path      string              `json:"path,omitempty"`
}

type StatePayload struct {
	IsActive          bool   `json:"isActive"`
	IsListening       bool   `json:"isListening"`
	IsSpeaking        bool   `json:"isSpeaking"`
	Language          string `json:"language"`
	LastCommand       string `json:"lastCommand"`
	Feedback          string `json:"feedback"`
	Error             string `json:"error,omitempty"`
	Microphone        string `json:"microphone,omitempty"`
	WakeWordEnabled   bool   `json:"wakeWordEnabled"`
	WakeWordListening bool   `json:"wakeWordListening"`
	SOSVoiceEnabled   bool   `json:"sosVoiceEnabled"`
	SOSListening      bool   `json:"sosListening"`
	MeterEnabled      bool   `json:"meterEnabled"`
	MeterActive       bool   `json:"meterActive"`
	Level             int    `json:"level"`
}

type MotionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type SOSPayload struct {
	Source     string `json:"source"`
	Transcript string `json:"transcript,omitempty"`
	At         int64  `json:"at"`
}

// engineBound reports whether an inbound envelope is a request for the engine
// rather than a reply from one of the browser capabilities.
func engineBound(t string) bool {
	switch t {
	case TypeMotion, TypeCommandRegister, TypeCommandUnregister,
		TypeControlActivate, TypeControlDeactivate,
		TypeControlStartListening, TypeControlStopListening,
		TypeControlSelectLanguage, TypeControlReadAll, TypeControlReadFeature,
		TypeControlNavigateFeature, TypeControlWakeWord, TypeControlSOSVoice,
		TypeControlMeter:
		return true
	}
	return false
}
