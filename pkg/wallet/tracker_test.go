package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// gatedProvider blocks balance fetches per account until the matching
// gate is released, so tests can control resolution order.
type gatedProvider struct {
	mu       sync.Mutex
	account  string
	balances map[string]*big.Int
	gates    map[string]chan struct{}
	balErr   error
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		balances: make(map[string]*big.Int),
		gates:    make(map[string]chan struct{}),
	}
}

func (p *gatedProvider) setAccount(account string, balance *big.Int, gated bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.account = account
	p.balances[account] = balance
	if gated {
		p.gates[account] = make(chan struct{})
	}
}

func (p *gatedProvider) release(account string) {
	p.mu.Lock()
	gate := p.gates[account]
	p.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (p *gatedProvider) Activate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.account, nil
}

func (p *gatedProvider) Deactivate() error { return nil }

func (p *gatedProvider) BalanceAt(ctx context.Context, account string) (*big.Int, error) {
	p.mu.Lock()
	gate := p.gates[account]
	bal := p.balances[account]
	err := p.balErr
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func (p *gatedProvider) SendTransfer(ctx context.Context, to string, amountWei *big.Int) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (p *gatedProvider) WaitMined(ctx context.Context, txHash string) error {
	return fmt.Errorf("not implemented")
}

func startTracker(t *testing.T, p Provider) (*Session, *Tracker, context.CancelFunc) {
	t.Helper()
	s := NewSession(p, quietLogger())
	tr := NewTracker(s, 4, quietLogger())
	tr.SetRefreshInterval(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	tr.Start(ctx)
	return s, tr, cancel
}

func TestTracker_PublishesBalance(t *testing.T) {
	p := newGatedProvider()
	p.setAccount("0xA", big.NewInt(1e18), false)

	s, tr, cancel := startTracker(t, p)
	defer cancel()

	assert.NoError(t, s.Connect(context.Background()))

	assert.Eventually(t, func() bool {
		v := tr.View()
		return v != nil && v.Account == "0xA" && v.Value == "1.0000"
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, len(tr.History()))
}

func TestTracker_StaleFetchNeverOverwrites(t *testing.T) {
	p := newGatedProvider()
	p.setAccount("0xA", big.NewInt(1e18), true)

	s, tr, cancel := startTracker(t, p)
	defer cancel()

	// Connect as A; its fetch blocks on the gate.
	assert.NoError(t, s.Connect(context.Background()))

	// Switch to B before A's fetch resolves.
	s.Disconnect()
	p.setAccount("0xB", big.NewInt(2e18), true)
	assert.NoError(t, s.Connect(context.Background()))

	// B resolves first.
	p.release("0xB")
	assert.Eventually(t, func() bool {
		v := tr.View()
		return v != nil && v.Account == "0xB"
	}, time.Second, 10*time.Millisecond)

	// A resolves late; it must be discarded.
	p.release("0xA")
	time.Sleep(100 * time.Millisecond)

	v := tr.View()
	assert.NotNil(t, v)
	assert.Equal(t, "0xB", v.Account)
	assert.Equal(t, "2.0000", v.Value)
}

func TestTracker_DisconnectClearsImmediately(t *testing.T) {
	p := newGatedProvider()
	p.setAccount("0xA", big.NewInt(1e18), true)

	s, tr, cancel := startTracker(t, p)
	defer cancel()

	assert.NoError(t, s.Connect(context.Background()))
	s.Disconnect()

	assert.Eventually(t, func() bool {
		return tr.View() == nil
	}, time.Second, 10*time.Millisecond)

	// The in-flight fetch resolving later must not resurrect the view.
	p.release("0xA")
	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, tr.View())
}

func TestTracker_FetchErrorLeavesViewUnchanged(t *testing.T) {
	p := newGatedProvider()
	p.setAccount("0xA", big.NewInt(1e18), false)

	s, tr, cancel := startTracker(t, p)
	defer cancel()

	assert.NoError(t, s.Connect(context.Background()))
	assert.Eventually(t, func() bool {
		return tr.View() != nil
	}, time.Second, 10*time.Millisecond)

	p.mu.Lock()
	p.balErr = fmt.Errorf("rpc down")
	p.mu.Unlock()

	tr.Refresh(context.Background())
	time.Sleep(100 * time.Millisecond)

	v := tr.View()
	assert.NotNil(t, v)
	assert.Equal(t, "0xA", v.Account)
}

func TestTracker_RefreshWhileDisconnectedIsNoop(t *testing.T) {
	p := newGatedProvider()
	s, tr, cancel := startTracker(t, p)
	defer cancel()

	_ = s
	tr.Refresh(context.Background())
	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, tr.View())
}
