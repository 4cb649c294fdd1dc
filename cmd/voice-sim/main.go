// Command voice-sim is a stand-in browser for the voice WebSocket. It grants
// microphone access, plays back utterances instantly and turns lines typed on
// stdin into recognition results.
//
// Usage:
//
//	go run ./cmd/voice-sim --url ws://localhost:3000/api/v1/voice/ws --client dev
//
// Lines starting with "/" are controls: /activate, /deactivate, /listen,
// /stop, /lang <en|bn>, /read, /read <n>, /go <path>, /wake <on|off>,
// /sos <on|off>, /meter <on|off>, /shake, /register <id> <phrase>,
// /unregister <id>. Anything else is spoken as a final transcript.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	websocketPkg "CommunityCompass/pkg/websocket"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type simulator struct {
	conn *websocket.Conn
	log  *logrus.Logger

	writeMu sync.Mutex

	mu         sync.Mutex
	recognizer string
	metering   bool
}

func main() {
	rawURL := flag.String("url", "ws://localhost:3000/api/v1/voice/ws", "Voice WebSocket endpoint")
	clientID := flag.String("client", "voice-sim", "Client ID sent as client_id")
	deny := flag.Bool("deny", false, "Deny microphone permission")
	debug := flag.Bool("debug", false, "Log every envelope")
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	endpoint, err := url.Parse(*rawURL)
	if err != nil {
		logger.Fatalf("Invalid url: %v", err)
	}
	query := endpoint.Query()
	query.Set("client_id", *clientID)
	endpoint.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(endpoint.String(), nil)
	if err != nil {
		logger.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	sim := &simulator{conn: conn, log: logger}
	conn.SetPingHandler(func(appData string) error {
		sim.writeMu.Lock()
		defer sim.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.readLoop(!*deny)
	}()
	go sim.inputLoop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("\nbye")
		sim.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		sim.writeMu.Unlock()
	case <-done:
	}
}

func (s *simulator) send(env websocketPkg.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		s.log.Errorf("Failed to encode %s: %v", env.Type, err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Errorf("Failed to send %s: %v", env.Type, err)
	}
}

func (s *simulator) readLoop(grant bool) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Errorf("Connection error: %v", err)
			} else {
				fmt.Println("connection closed")
			}
			return
		}

		var env websocketPkg.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.log.Warnf("Malformed message: %v", err)
			continue
		}
		s.log.Debugf("<- %s", data)
		s.handle(env, grant)
	}
}

func (s *simulator) handle(env websocketPkg.Envelope, grant bool) {
	switch env.Type {
	case websocketPkg.TypePermissionAsk:
		fmt.Printf("[mic] permission requested, granted=%v\n", grant)
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypePermissionResult, ID: env.ID, Granted: grant})

	case websocketPkg.TypeRecognitionStart:
		s.mu.Lock()
		s.recognizer = env.ID
		s.mu.Unlock()
		fmt.Printf("[mic] listening (%s)\n", env.Lang)
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeRecognitionStarted, ID: env.ID})

	case websocketPkg.TypeRecognitionStop, websocketPkg.TypeRecognitionAbort:
		s.mu.Lock()
		if s.recognizer == env.ID {
			s.recognizer = ""
		}
		s.mu.Unlock()
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeRecognitionEnded, ID: env.ID})

	case websocketPkg.TypeUtteranceSpeak:
		fmt.Printf("[tts:%s] %s\n", env.Lang, env.Text)
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeUtteranceStarted, ID: env.ID})
		go func(id string) {
			time.Sleep(200 * time.Millisecond)
			s.send(websocketPkg.Envelope{Type: websocketPkg.TypeUtteranceEnded, ID: id})
		}(env.ID)

	case websocketPkg.TypeNavigate:
		fmt.Printf("[router] navigate to %s\n", env.Path)

	case websocketPkg.TypeLevelOpen:
		s.mu.Lock()
		s.metering = true
		s.mu.Unlock()
		go s.meterLoop()

	case websocketPkg.TypeLevelClose:
		s.mu.Lock()
		s.metering = false
		s.mu.Unlock()

	case websocketPkg.TypeCommandInvoke:
		fmt.Printf("[page] command %s invoked\n", env.ID)

	case websocketPkg.TypeCommandAccepted:
		fmt.Printf("[page] command %s registered\n", env.ID)

	case websocketPkg.TypeSOS:
		fmt.Printf("[SOS] raised by %s %q\n", env.SOS.Source, env.SOS.Transcript)

	case websocketPkg.TypeState:
		st := env.State
		fmt.Printf("[state] active=%v listening=%v speaking=%v mic=%q lang=%s feedback=%q\n",
			st.IsActive, st.IsListening, st.IsSpeaking, st.Microphone, st.Language, st.Feedback)

	case websocketPkg.TypeError:
		fmt.Printf("[error] %s\n", env.Error)
	}
}

func (s *simulator) meterLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		on := s.metering
		s.mu.Unlock()
		if !on {
			return
		}
		bins := make([]int, 32)
		for i := range bins {
			bins[i] = (i * 7) % 128
		}
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeLevelFrame, Bins: bins})
	}
}

func (s *simulator) inputLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			s.control(strings.Fields(line))
			continue
		}
		s.speak(line)
	}
}

func (s *simulator) speak(transcript string) {
	s.mu.Lock()
	id := s.recognizer
	s.mu.Unlock()

	if id == "" {
		fmt.Println("not listening, try /listen or /activate")
		return
	}
	s.send(websocketPkg.Envelope{Type: websocketPkg.TypeRecognitionResult, ID: id, Transcript: transcript, Final: true})
}

func (s *simulator) control(args []string) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch args[0] {
	case "/activate":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlActivate})
	case "/deactivate":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlDeactivate})
	case "/listen":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlStartListening})
	case "/stop":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlStopListening})
	case "/lang":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlSelectLanguage, Lang: arg(1)})
	case "/read":
		if arg(1) == "" {
			s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlReadAll})
			return
		}
		index, err := strconv.Atoi(arg(1))
		if err != nil {
			fmt.Println("usage: /read <index>")
			return
		}
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlReadFeature, Index: &index})
	case "/go":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlNavigateFeature, Path: arg(1)})
	case "/wake":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlWakeWord, Enabled: arg(1) != "off"})
	case "/sos":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlSOSVoice, Enabled: arg(1) != "off"})
	case "/meter":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeControlMeter, Enabled: arg(1) != "off"})
	case "/shake":
		for i := 0; i < 4; i++ {
			x := 20.0
			if i%2 == 1 {
				x = -20
			}
			s.send(websocketPkg.Envelope{Type: websocketPkg.TypeMotion, Motion: &websocketPkg.MotionPayload{X: x}})
			time.Sleep(100 * time.Millisecond)
		}
	case "/register":
		if len(args) < 3 {
			fmt.Println("usage: /register <id> <phrase>")
			return
		}
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeCommandRegister, Command: &websocketPkg.CommandPayload{
			ID:       args[1],
			Keywords: map[string][]string{"en": {strings.Join(args[2:], " ")}},
		}})
	case "/unregister":
		s.send(websocketPkg.Envelope{Type: websocketPkg.TypeCommandUnregister, ID: arg(1)})
	default:
		fmt.Printf("unknown control %s\n", args[0])
	}
}
