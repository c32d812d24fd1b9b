package wallet

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"aisum/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testDest = "0x000000000000000000000000000000000000dEaD"

var tipAmount = big.NewInt(1e16) // 0.01 ether

func connectedSession(t *testing.T, mp *MockProvider) *Session {
	t.Helper()
	mp.On("Activate", mock.Anything).Return("0xA", nil)
	s := NewSession(mp, quietLogger())
	assert.NoError(t, s.Connect(context.Background()))
	return s
}

func TestPay_Success(t *testing.T) {
	mp := new(MockProvider)
	s := connectedSession(t, mp)
	mp.On("SendTransfer", mock.Anything, testDest, tipAmount).Return("0xhash", nil)
	mp.On("WaitMined", mock.Anything, "0xhash").Return(nil)

	sub := s.Subscribe()
	p := NewSubmitter(s, testDest, tipAmount, quietLogger())

	hash, err := p.Pay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "0xhash", hash)
	mp.AssertExpectations(t)

	ev := <-sub
	assert.Equal(t, EventPaymentSettled, ev.Type)
	res, ok := ev.Data.(models.PaymentResult)
	assert.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, "0xhash", res.TxHash)
}

func TestPay_WhenDisconnected(t *testing.T) {
	mp := new(MockProvider)
	s := NewSession(mp, quietLogger())
	p := NewSubmitter(s, testDest, tipAmount, quietLogger())

	_, err := p.Pay(context.Background())
	assert.Error(t, err)
	mp.AssertNotCalled(t, "SendTransfer", mock.Anything, mock.Anything, mock.Anything)
	mp.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
}

func TestPay_SendFailure(t *testing.T) {
	mp := new(MockProvider)
	s := connectedSession(t, mp)
	mp.On("SendTransfer", mock.Anything, testDest, tipAmount).Return("", fmt.Errorf("insufficient funds"))

	p := NewSubmitter(s, testDest, tipAmount, quietLogger())
	_, err := p.Pay(context.Background())
	assert.Error(t, err)
	mp.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
}

func TestPay_ConfirmationFailure(t *testing.T) {
	mp := new(MockProvider)
	s := connectedSession(t, mp)
	mp.On("SendTransfer", mock.Anything, testDest, tipAmount).Return("0xhash", nil)
	mp.On("WaitMined", mock.Anything, "0xhash").Return(fmt.Errorf("reverted"))

	p := NewSubmitter(s, testDest, tipAmount, quietLogger())
	hash, err := p.Pay(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "0xhash", hash)
}

func TestPay_NoDestinationConfigured(t *testing.T) {
	mp := new(MockProvider)
	s := connectedSession(t, mp)

	p := NewSubmitter(s, "", tipAmount, quietLogger())
	_, err := p.Pay(context.Background())
	assert.Error(t, err)
	mp.AssertNotCalled(t, "SendTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestPay_RejectsConcurrentAttempts(t *testing.T) {
	mp := new(MockProvider)
	s := connectedSession(t, mp)

	started := make(chan struct{})
	release := make(chan struct{})
	mp.On("SendTransfer", mock.Anything, testDest, tipAmount).Run(func(args mock.Arguments) {
		close(started)
		<-release
	}).Return("0xhash", nil)
	mp.On("WaitMined", mock.Anything, "0xhash").Return(nil)

	p := NewSubmitter(s, testDest, tipAmount, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := p.Pay(context.Background())
		done <- err
	}()

	<-started
	_, err := p.Pay(context.Background())
	assert.Error(t, err)

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("first payment never completed")
	}
	mp.AssertNumberOfCalls(t, "SendTransfer", 1)
}
