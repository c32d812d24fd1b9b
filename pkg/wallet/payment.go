package wallet

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"

	"aisum/pkg/models"
)

// Submitter sends the fixed tip payment through the active session and
// waits for on-chain confirmation. One attempt at a time; nothing is
// queued or retried.
type Submitter struct {
	session     *Session
	logger      *log.Logger
	destination string
	amountWei   *big.Int

	mu       sync.Mutex
	inFlight bool
}

// NewSubmitter returns a submitter paying amountWei to destination.
func NewSubmitter(session *Session, destination string, amountWei *big.Int, logger *log.Logger) *Submitter {
	if logger == nil {
		logger = log.Default()
	}
	return &Submitter{
		session:     session,
		logger:      logger,
		destination: destination,
		amountWei:   amountWei,
	}
}

// Pay submits one transfer and blocks until it is mined. It refuses to
// touch the provider unless the session is connected.
func (p *Submitter) Pay(ctx context.Context) (string, error) {
	if p.session.State() != models.WalletConnected {
		return "", fmt.Errorf("wallet not connected")
	}
	if p.destination == "" {
		return "", fmt.Errorf("no payment destination configured")
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return "", fmt.Errorf("payment already in progress")
	}
	p.inFlight = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	hash, err := p.session.Provider().SendTransfer(ctx, p.destination, p.amountWei)
	if err != nil {
		p.logger.Printf("payment failed: %v", err)
		p.session.notify(Event{Type: EventPaymentSettled, Data: models.PaymentResult{Err: err}})
		return "", err
	}

	if err := p.session.Provider().WaitMined(ctx, hash); err != nil {
		p.logger.Printf("payment %s not confirmed: %v", hash, err)
		p.session.notify(Event{Type: EventPaymentSettled, Data: models.PaymentResult{TxHash: hash, Err: err}})
		return hash, err
	}

	p.session.notify(Event{Type: EventPaymentSettled, Data: models.PaymentResult{TxHash: hash}})
	return hash, nil
}
