package events

// Handler receives a published UI event
type Handler = func(interface{})

// EventBus carries notifications between the engine services and the
// model. Events are keyed by TypeOf.
type EventBus interface {
	Publish(event interface{})
	Subscribe(eventType string, handler Handler)
}

// NullBus drops every event; for services used without a listener
type NullBus struct{}

func (n *NullBus) Publish(event interface{})                   {}
func (n *NullBus) Subscribe(eventType string, handler Handler) {}
