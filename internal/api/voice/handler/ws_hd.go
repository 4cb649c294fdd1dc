package voiceHandler

import (
	contextPkg "CommunityCompass/pkg/context"
	websocketPkg "CommunityCompass/pkg/websocket"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	maxReadTimeout = 60 * time.Second
	pingInterval   = 30 * time.Second
	controlTimeout = 5 * time.Second
	maxMessageSize = 64 * 1024
)

func (h *VoiceHandler) handleWebSocket(c *websocket.Conn) {
	clientID, _ := c.Locals(clientIDLocal).(string)
	entry := h.log.WithField("client_id", clientID)

	entry.Info("Voice WebSocket client connected")
	defer entry.Info("Voice WebSocket client disconnected")

	ctx := contextPkg.WithClientID(context.Background(), clientID)
	session, err := h.voiceService.Connect(ctx, clientID, c)
	if err != nil {
		entry.WithField("error", err.Error()).Error("Failed to start voice session")
		return
	}
	defer session.Close()

	c.SetReadLimit(maxMessageSize)
	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(controlTimeout)); err != nil {
			entry.Errorf("Error sending pong: %v", err)
		}
		return nil
	})
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(maxReadTimeout))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go h.keepAlive(c, entry, session.Done(), stopPing)

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			entry.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				entry.Errorf("Voice WebSocket error: %v", err)
			} else {
				entry.Debug("Voice WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			entry.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		if err := session.Receive(message); err != nil {
			if errors.Is(err, websocketPkg.ErrBridgeClosed) {
				entry.Info("Voice session replaced by a newer connection")
				break
			}
			entry.WithField("error", err.Error()).Warn("Rejected voice WebSocket message")
		}
	}
}

// keepAlive pings the browser so idle connections are not dropped by
// proxies. The pong handler extends the read deadline.
func (h *VoiceHandler) keepAlive(c *websocket.Conn, entry *logrus.Entry, sessionDone <-chan struct{}, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-sessionDone:
			deadline := time.Now().Add(controlTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session replaced")
			if err := c.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
				entry.Debugf("Error sending close: %v", err)
			}
			return
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(controlTimeout)); err != nil {
				entry.Debugf("Error sending ping: %v", err)
				return
			}
		}
	}
}
