package wallet

import (
	"context"
	"log"
	"sync"
	"time"

	"aisum/pkg/models"
	"aisum/pkg/utils"
)

var (
	defaultRefreshInterval = 30 * time.Second
	maxHistoryPoints       = 2880
)

// Tracker derives the balance view from the session's connected account.
// Every account change bumps a generation counter; a fetch captures the
// generation at start and its result is discarded if the generation has
// moved by the time it resolves, so a stale fetch can never overwrite the
// balance of a newer account.
type Tracker struct {
	session  *Session
	logger   *log.Logger
	interval time.Duration
	decimals int

	mu      sync.Mutex
	gen     uint64
	view    *models.BalanceData
	history []models.BalancePoint
}

// NewTracker returns a tracker publishing balances with the given number
// of display decimals.
func NewTracker(session *Session, decimals int, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		session:  session,
		logger:   logger,
		interval: defaultRefreshInterval,
		decimals: decimals,
	}
}

// SetRefreshInterval overrides the periodic refresh cadence (useful for
// testing).
func (t *Tracker) SetRefreshInterval(d time.Duration) {
	t.interval = d
}

// Start subscribes to the session and reacts to connection changes until
// ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	sub := t.session.Subscribe()
	go func() {
		defer t.session.Unsubscribe(sub)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if ev.Type != EventStateChanged {
					continue
				}
				state, _ := ev.Data.(models.WalletState)
				switch state {
				case models.WalletConnected:
					t.restart(ctx)
				case models.WalletDisconnected:
					t.clear()
				}
			case <-ticker.C:
				t.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// View returns the current balance view, or nil when absent.
func (t *Tracker) View() *models.BalanceData {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		return nil
	}
	v := *t.view
	return &v
}

// History returns the balance samples collected while connected.
func (t *Tracker) History() []models.BalancePoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.BalancePoint, len(t.history))
	copy(out, t.history)
	return out
}

// Refresh issues a balance fetch for the current account, if connected.
func (t *Tracker) Refresh(ctx context.Context) {
	if t.session.State() != models.WalletConnected {
		return
	}
	account := t.session.Account()
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	go t.fetch(ctx, gen, account)
}

// restart invalidates any in-flight fetch and starts a fresh one for the
// newly connected account.
func (t *Tracker) restart(ctx context.Context) {
	account := t.session.Account()
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.view = nil
	t.history = nil
	t.mu.Unlock()
	if account == "" {
		return
	}
	go t.fetch(ctx, gen, account)
}

// clear drops the view immediately without waiting for in-flight fetches.
func (t *Tracker) clear() {
	t.mu.Lock()
	t.gen++
	t.view = nil
	t.history = nil
	t.mu.Unlock()
	t.session.notify(Event{Type: EventBalanceCleared})
}

func (t *Tracker) fetch(ctx context.Context, gen uint64, account string) {
	bal, err := t.session.Provider().BalanceAt(ctx, account)
	if err != nil {
		// Leave the previous view in place; never surfaced as a failure.
		t.logger.Printf("balance fetch for %s: %v", utils.TruncateString(account, 12), err)
		return
	}

	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	view := models.BalanceData{
		Account: account,
		Value:   utils.FormatWei(bal, t.decimals),
	}
	t.view = &view
	t.history = append(t.history, models.BalancePoint{
		Timestamp: time.Now(),
		Value:     utils.BigFloatToFloat64(utils.WeiToEther(bal)),
	})
	if len(t.history) > maxHistoryPoints {
		t.history = t.history[len(t.history)-maxHistoryPoints:]
	}
	t.mu.Unlock()

	t.session.notify(Event{Type: EventBalanceUpdated, Data: view})
}
