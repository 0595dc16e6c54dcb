package interfaces

// EventPublisher delivers change notifications to interested subscribers.
// Delivery is advisory: a failed publish must never fail the write that
// produced it.
type EventPublisher interface {
	Publish(topic string, event any) error
}
