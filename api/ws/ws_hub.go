package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/SunnySoftwareTech/Drafty/events"
)

// userMessage is a frame for every connection of one user, or for a single
// connection when client is set.
type userMessage struct {
	userId string
	client *Client
	data   []byte
}

type statusMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub maintains the set of active clients and forwards each sync status to
// the connections of the user it belongs to.
type Hub struct {
	broker        events.Broker
	OpenCh        chan *Client
	CloseCh       chan *Client
	UserMessageCh chan userMessage
	userToClients map[string]map[*Client]struct{}
}

func NewHub(broker events.Broker) *Hub {
	return &Hub{
		broker:        broker,
		OpenCh:        make(chan *Client, 256),
		CloseCh:       make(chan *Client, 256),
		UserMessageCh: make(chan userMessage, 1024),
		userToClients: make(map[string]map[*Client]struct{}),
	}
}

const maxConnectionsPerUser = 3

func (h *Hub) Run(shutdownCtx context.Context) {
	for {
		select {
		case client := <-h.OpenCh:
			if _, ok := h.userToClients[client.userId]; !ok {
				h.userToClients[client.userId] = make(map[*Client]struct{})
			}

			if len(h.userToClients[client.userId]) >= maxConnectionsPerUser {
				log.Printf("User %s reached max connections (%d)", client.userId, maxConnectionsPerUser)
				close(client.Send)
				continue
			}

			h.userToClients[client.userId][client] = struct{}{}
			if client.hello != nil {
				client.Send <- client.hello
			}

		case client := <-h.CloseCh:
			if _, ok := h.userToClients[client.userId][client]; !ok {
				continue
			}
			delete(h.userToClients[client.userId], client)
			close(client.Send)
			if len(h.userToClients[client.userId]) == 0 {
				delete(h.userToClients, client.userId)
			}

		case msg := <-h.UserMessageCh:
			for client := range h.userToClients[msg.userId] {
				if msg.client != nil && msg.client != client {
					continue
				}
				select {
				case client.Send <- msg.data:
				default:
					log.Printf("Dropping status for user %s: connection is not keeping up", msg.userId)
				}
			}

		case <-shutdownCtx.Done():
			return
		}
	}
}

// Connections reports how many connections a user has open. It must only be
// used once Run has returned.
func (h *Hub) Connections(userId string) int {
	return len(h.userToClients[userId])
}

// InitSubscriptions routes every published sync status to the hub.
func (h *Hub) InitSubscriptions(shutdownCtx context.Context) error {
	err := h.broker.Subscribe(shutdownCtx, events.SyncStatusChannel, func(message []byte) {
		var status struct {
			UserId string `json:"userId"`
		}
		if err := json.Unmarshal(message, &status); err != nil || status.UserId == "" {
			log.Printf("Failed to unmarshal sync status message: %v", err)
			return
		}

		frame, err := json.Marshal(statusMessage{Type: "sync_status", Data: message})
		if err != nil {
			return
		}
		select {
		case h.UserMessageCh <- userMessage{userId: status.UserId, data: frame}:
		case <-shutdownCtx.Done():
		}
	})
	if err != nil {
		log.Printf("WS hub failed to subscribe to %s: %v", events.SyncStatusChannel, err)
		return err
	}

	return nil
}
