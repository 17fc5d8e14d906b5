// Package realtime fans notification and message events out to connected
// users over websockets. Events travel through an in-process pubsub hub with
// one topic per user and stream.
package realtime

import (
	"github.com/juju/pubsub/v2"
)

// Event types sent to clients.
const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Event is the JSON frame written to sockets.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NotificationsTopic(userID string) string { return "notifications." + userID }
func MessagesTopic(userID string) string      { return "messages." + userID }

// Publisher is what services need to push events.
type Publisher interface {
	PublishNotification(userID string, data any) func()
	PublishMessage(userID string, data any) func()
}

type Hub struct {
	hub *pubsub.SimpleHub
}

func NewHub() *Hub {
	return &Hub{hub: pubsub.NewSimpleHub(nil)}
}

// Publish sends an event on topic. Calling the returned func blocks until
// every subscriber's handler has run.
func (h *Hub) Publish(topic string, e Event) func() {
	return h.hub.Publish(topic, e)
}

func (h *Hub) PublishNotification(userID string, data any) func() {
	return h.Publish(NotificationsTopic(userID), Event{Type: EventNotification, Data: data})
}

func (h *Hub) PublishMessage(userID string, data any) func() {
	return h.Publish(MessagesTopic(userID), Event{Type: EventMessage, Data: data})
}

// Subscribe calls handler for every event on the user's notification and
// message topics, in the order each topic publishes them. The returned func
// unsubscribes from both.
func (h *Hub) Subscribe(userID string, handler func(Event)) func() {
	deliver := func(_ string, data interface{}) {
		if e, ok := data.(Event); ok {
			handler(e)
		}
	}
	unsubN := h.hub.Subscribe(NotificationsTopic(userID), deliver)
	unsubM := h.hub.Subscribe(MessagesTopic(userID), deliver)
	return func() {
		unsubN()
		unsubM()
	}
}
