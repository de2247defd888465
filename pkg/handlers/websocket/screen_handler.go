package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/config"
	infraWebsocket "github.com/RakshakAI/ScamShield/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const maxFrameBytes = 64 * 1024

type screenWebsocketHandler struct {
	config     *config.Config
	logger     *logrus.Logger
	classifier classify.Classifier
}

func NewScreenHandler(
	config *config.Config,
	logger *logrus.Logger,
	classifier classify.Classifier,
) Handler {
	return &screenWebsocketHandler{
		config:     config,
		logger:     logger,
		classifier: classifier,
	}
}

// Handle serves one screening connection until the peer closes it. Every
// inbound frame is scored independently and answered with a frame carrying
// the same correlation id; a malformed frame produces an error frame, never
// a closed socket.
func (h *screenWebsocketHandler) Handle(c *websocket.Conn) {
	semaphoreInterface := c.Locals("ws_semaphore")
	if semaphoreInterface != nil {
		if semaphore, ok := semaphoreInterface.(*infraWebsocket.Semaphore); ok {
			defer semaphore.Release()
		}
	}

	var session *infraWebsocket.Session
	ctx := context.Background()
	if sessionID, ok := c.Locals(string(common.RequestIdContextKey)).(string); ok && sessionID != "" {
		session = &infraWebsocket.Session{UUID: sessionID}
		ctx = context.WithValue(ctx, common.RequestIdContextKey, sessionID)
	}

	pongWait, err := time.ParseDuration(h.config.WebSocket.PongWait)
	if err != nil {
		pongWait = 45 * time.Second
	}

	pingPeriod, err := time.ParseDuration(h.config.WebSocket.PingPeriod)
	if err != nil {
		pingPeriod = 30 * time.Second
	}

	c.SetReadLimit(maxFrameBytes)
	if err := c.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.WithError(err).Error("failed to set read deadline")
		return
	}

	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Debug("screening connection closed unexpectedly")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := c.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			h.logger.WithError(err).Error("failed to reset read deadline")
			return
		}

		response := h.screen(ctx, session, payload)
		if err := h.writeResponse(c, response); err != nil {
			h.logger.WithError(err).Debug("failed to write screening response")
			return
		}
	}
}

func (h *screenWebsocketHandler) screen(
	ctx context.Context,
	session *infraWebsocket.Session,
	payload []byte,
) *infraWebsocket.ScreenResponse {
	response := &infraWebsocket.ScreenResponse{Session: session}

	var request infraWebsocket.ScreenRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		response.Error = "invalid frame: expected {\"id\", \"text\"}"
		return response
	}

	response.ID = request.ID
	if strings.TrimSpace(request.ID) == "" {
		response.Error = "frame id is required"
		return response
	}

	result, err := h.classifier.Classify(ctx, request.Text)
	if err != nil {
		h.logger.WithError(err).WithField("frame_id", request.ID).Debug("screening frame rejected")
		response.Error = err.Error()
		return response
	}

	response.Result = result
	return response
}

func (h *screenWebsocketHandler) writeResponse(c *websocket.Conn, response *infraWebsocket.ScreenResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, payload)
}
