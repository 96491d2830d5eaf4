package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

const Subprotocol = "drafty-v1"

type Handler struct {
	Service *service.Service
	Hub     *Hub
}

func NewHandler(svc *service.Service, hub *Hub) *Handler {
	return &Handler{
		Service: svc,
		Hub:     hub,
	}
}

// NewWsUpgrader accepts browsers from requiredOrigin and clients that send no
// Origin at all, such as the CLI.
func (h *Handler) NewWsUpgrader(requiredOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == requiredOrigin
		},
		Subprotocols: []string{Subprotocol},
	}
}

type helloData struct {
	UserId   string `json:"userId"`
	HasToken bool   `json:"hasToken"`
}

// ServeWS handles websocket requests from the peer. The session token rides
// in the subprotocol list: "drafty-v1, <token>".
func (h *Handler) ServeWS(wsUpgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	protocols := r.Header.Get("Sec-WebSocket-Protocol")
	protocolsSplit := strings.Split(protocols, ",")

	if len(protocolsSplit) != 2 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := strings.TrimSpace(protocolsSplit[1])

	userId, authErr := h.Service.AuthenticateToken(token)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	// Must upgrade the connection in order to be able to send custom close message
	if authErr != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthenticated"),
		)
		conn.Close()
		return
	}

	client := NewClient(h.Hub, conn, userId, h.HandleWsMessage)

	// Lets the frontend know whether sync is usable before it asks
	hasToken, err := h.Service.HasToken(r.Context(), userId)
	if err != nil {
		log.Printf("Failed to load token state for user %s: %v", userId, err)
	}
	if msgBytes, err := json.Marshal(responseMessage{Type: "hello", Data: helloData{UserId: userId, HasToken: hasToken}}); err == nil {
		client.hello = msgBytes
	}

	h.Hub.OpenCh <- client

	go client.ReadPump()
	go client.WritePump(shutdownCtx)
}

// Websocket message structs
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type syncMessage struct {
	Action worker.SyncAction `json:"action"`
}

type responseMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type errorData struct {
	Error string `json:"error"`
}

func (h *Handler) HandleWsMessage(client *Client, messageType int, messageBytes []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	var msg message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("Invalid JSON: %v", err)
		return
	}

	switch msg.Type {
	case "ping":
		h.send(client, "pong", nil)

	case "sync":
		var req syncMessage
		if err := json.Unmarshal(msg.Data, &req); err != nil || !req.Action.Valid() {
			h.send(client, "error", errorData{Error: "invalid sync request"})
			return
		}
		h.handleSync(client, req.Action)

	default:
		log.Printf("Unknown ws message type: %s", msg.Type)
	}
}

// handleSync queues the sync when a queue is configured and otherwise runs it
// in the background. Either way the outcome reaches the client as a status.
func (h *Handler) handleSync(client *Client, action worker.SyncAction) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.Service.RequestSync(ctx, client.userId, action)
	if err == nil {
		return
	}
	if !errors.Is(err, service.ErrAsyncUnavailable) {
		h.send(client, "error", errorData{Error: err.Error()})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if action == worker.ActionPush {
			h.Service.Push(ctx, client.userId)
		} else {
			h.Service.Pull(ctx, client.userId)
		}
	}()
}

func (h *Handler) send(client *Client, msgType string, data any) {
	msgBytes, err := json.Marshal(responseMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msgType, err)
		return
	}
	client.reply(msgBytes)
}
