package mq

import "context"

// MessageQueue is an at-least-once queue. Messages sharing a GroupId are
// delivered in send order where the backend supports it.
type MessageQueue interface {
	Send(ctx context.Context, groupId string, body string) error
	// Receive returns nil, nil when no message arrived within the poll window.
	Receive(ctx context.Context, visibilityTimeout int32) (*Message, error)
	Delete(ctx context.Context, msg *Message) error
}

type Message struct {
	Id      string
	GroupId string
	Body    string
}
