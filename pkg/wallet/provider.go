package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Provider is the external wallet capability surface: activation,
// balance queries and transaction submission. The session treats it as a
// black box so tests can substitute their own.
type Provider interface {
	Activate(ctx context.Context) (string, error)
	Deactivate() error
	BalanceAt(ctx context.Context, account string) (*big.Int, error)
	SendTransfer(ctx context.Context, to string, amountWei *big.Int) (string, error)
	WaitMined(ctx context.Context, txHash string) error
}

var (
	transferGasLimit    = uint64(21000)
	receiptPollInterval = 2 * time.Second
)

// RPCProvider implements Provider over a JSON-RPC endpoint with a local
// signing key.
type RPCProvider struct {
	rpcURL string
	keyHex string

	mu      sync.Mutex
	client  *ethclient.Client
	account common.Address
	chainID *big.Int
}

// NewRPCProvider returns a provider that dials rpcURL on activation and
// signs with the given hex-encoded private key.
func NewRPCProvider(rpcURL, keyHex string) *RPCProvider {
	return &RPCProvider{rpcURL: rpcURL, keyHex: keyHex}
}

// Activate dials the RPC endpoint and derives the account address from
// the configured key. Returns the account in hex form.
func (p *RPCProvider) Activate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := crypto.HexToECDSA(p.keyHex)
	if err != nil {
		return "", fmt.Errorf("parse wallet key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, p.rpcURL)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", p.rpcURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return "", fmt.Errorf("fetch chain id: %w", err)
	}

	p.client = client
	p.chainID = chainID
	p.account = crypto.PubkeyToAddress(key.PublicKey)
	return p.account.Hex(), nil
}

// Deactivate closes the RPC connection.
func (p *RPCProvider) Deactivate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

func (p *RPCProvider) activeClient() (*ethclient.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, fmt.Errorf("provider not activated")
	}
	return p.client, nil
}

// BalanceAt returns the latest balance of account in wei.
func (p *RPCProvider) BalanceAt(ctx context.Context, account string) (*big.Int, error) {
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	return client.BalanceAt(ctx, common.HexToAddress(account), nil)
}

// SendTransfer signs and submits a plain value transfer and returns the
// transaction hash.
func (p *RPCProvider) SendTransfer(ctx context.Context, to string, amountWei *big.Int) (string, error) {
	client, err := p.activeClient()
	if err != nil {
		return "", err
	}
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid destination address %q", to)
	}

	key, err := crypto.HexToECDSA(p.keyHex)
	if err != nil {
		return "", fmt.Errorf("parse wallet key: %w", err)
	}

	nonce, err := client.PendingNonceAt(ctx, p.account)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch gas price: %w", err)
	}

	dest := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &dest,
		Value:    amountWei,
		Gas:      transferGasLimit,
		GasPrice: gasPrice,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(p.chainID), key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// WaitMined polls for the transaction receipt until it lands or the
// context is cancelled.
func (p *RPCProvider) WaitMined(ctx context.Context, txHash string) error {
	client, err := p.activeClient()
	if err != nil {
		return err
	}

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("transaction %s reverted", txHash)
			}
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
