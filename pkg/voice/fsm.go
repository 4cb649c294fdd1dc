package voice

import "fmt"

type State string

const (
	StateIdle           State = "idle"
	StateStarting       State = "starting"
	StateListening      State = "listening"
	StateEnded          State = "ended"
	StateRestartPending State = "restart_pending"
)

type Event string

const (
	EventStart    Event = "start"
	EventStarted  Event = "started"
	EventEnded    Event = "ended"
	EventSchedule Event = "schedule"
	EventRestart  Event = "restart"
	EventStop     Event = "stop"
	EventFinish   Event = "finish"
	EventGiveUp   Event = "giveup"
	EventFail     Event = "fail"
)

type Intent string

const (
	IntentOff    Intent = "off"
	IntentWanted Intent = "wanted"
	IntentActive Intent = "active"
)

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid session transition: %s --%s-->", state, event)
}

// Transition is the pure session state table. Stop and fail are accepted
// from every state.
func Transition(state State, event Event) (State, error) {
	switch event {
	case EventStop, EventFail:
		return StateIdle, nil
	}

	switch state {
	case StateIdle:
		if event == EventStart {
			return StateStarting, nil
		}
	case StateStarting:
		switch event {
		case EventStarted:
			return StateListening, nil
		case EventEnded:
			return StateEnded, nil
		}
	case StateListening:
		if event == EventEnded {
			return StateEnded, nil
		}
	case StateEnded:
		switch event {
		case EventSchedule:
			return StateRestartPending, nil
		case EventFinish, EventGiveUp:
			return StateIdle, nil
		}
	case StateRestartPending:
		if event == EventRestart {
			return StateStarting, nil
		}
	}

	return state, invalidTransition(state, event)
}

func (s State) Live() bool {
	return s == StateStarting || s == StateListening
}
