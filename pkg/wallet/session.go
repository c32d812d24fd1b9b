// Package wallet manages the connection lifecycle to an EVM wallet
// provider, tracks the connected account's balance, and submits the
// fixed tip payment.
package wallet

import (
	"context"
	"log"
	"sync"

	"aisum/pkg/models"
)

// Session owns the wallet connection lifecycle and fans out wallet
// events to subscribers. The balance tracker and payment submitter
// publish through the same hub.
type Session struct {
	provider Provider
	logger   *log.Logger

	mu          sync.RWMutex
	state       models.WalletState
	account     string
	subscribers []Subscriber
}

// NewSession returns a disconnected session over the given provider.
func NewSession(provider Provider, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		provider: provider,
		logger:   logger,
		state:    models.WalletDisconnected,
	}
}

// Connect activates the provider. On failure the session returns to
// Disconnected; the error is logged and returned but is never fatal.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != models.WalletDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = models.WalletConnecting
	s.mu.Unlock()
	s.notify(Event{Type: EventStateChanged, Data: models.WalletConnecting})

	account, err := s.provider.Activate(ctx)
	if err != nil {
		s.logger.Printf("wallet connect failed: %v", err)
		s.mu.Lock()
		s.state = models.WalletDisconnected
		s.account = ""
		s.mu.Unlock()
		s.notify(Event{Type: EventStateChanged, Data: models.WalletDisconnected})
		return err
	}

	s.mu.Lock()
	s.state = models.WalletConnected
	s.account = account
	s.mu.Unlock()
	s.notify(Event{Type: EventStateChanged, Data: models.WalletConnected})
	return nil
}

// Disconnect is best-effort: provider errors are logged and swallowed,
// and the session always ends up Disconnected.
func (s *Session) Disconnect() {
	if err := s.provider.Deactivate(); err != nil {
		s.logger.Printf("wallet disconnect: %v", err)
	}

	s.mu.Lock()
	changed := s.state != models.WalletDisconnected
	s.state = models.WalletDisconnected
	s.account = ""
	s.mu.Unlock()

	if changed {
		s.notify(Event{Type: EventStateChanged, Data: models.WalletDisconnected})
	}
}

// State returns the current lifecycle state.
func (s *Session) State() models.WalletState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Account returns the connected account, or "" when not connected.
func (s *Session) Account() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Provider returns the underlying provider capability.
func (s *Session) Provider() Provider {
	return s.provider
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (s *Session) Subscribe() Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(Subscriber, 100)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (s *Session) Unsubscribe(ch Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (s *Session) notify(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscribers {
		select {
		case sub <- event:
		default:
			// Slow subscriber, drop the event.
		}
	}
}
