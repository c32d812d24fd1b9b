package wallet

// EventType defines the type of wallet event being broadcast.
type EventType string

const (
	EventStateChanged   EventType = "state_changed"
	EventBalanceUpdated EventType = "balance_updated"
	EventBalanceCleared EventType = "balance_cleared"
	EventPaymentSettled EventType = "payment_settled"
)

// Event represents a wallet lifecycle event.
type Event struct {
	Type EventType
	Data interface{}
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
