package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aisum/pkg/utils"
)

const ConfigFileName = ".aisum.json"

// ChainConfig holds configuration for the EVM chain the wallet pane uses.
type ChainConfig struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	RPCURL      string `json:"rpc_url"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// WalletConfig holds the signing key and the fixed tip payment settings.
// PaymentTo has no default: the destination must be configured explicitly.
type WalletConfig struct {
	PrivateKey    string `json:"private_key"`
	PaymentTo     string `json:"payment_to"`
	PaymentAmount string `json:"payment_amount"`
}

// Config holds application-wide settings.
type Config struct {
	SummarizerURL   string       `json:"summarizer_url"`
	Chain           ChainConfig  `json:"chain"`
	Wallet          WalletConfig `json:"wallet"`
	ThinkingDelayMS int          `json:"thinking_delay_ms"`
	BalanceDecimals int          `json:"balance_decimals"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SummarizerURL: "http://localhost:5000",
		Chain: ChainConfig{
			Name:        "Ethereum",
			Symbol:      "ETH",
			RPCURL:      "http://localhost:8545",
			ExplorerURL: "https://etherscan.io",
		},
		Wallet: WalletConfig{
			PaymentAmount: "0.01",
		},
		ThinkingDelayMS: 1500,
		BalanceDecimals: 4,
	}
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func LoadFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

func Load(r io.Reader) (Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.ThinkingDelayMS < 0 {
		cfg.ThinkingDelayMS = 0
	}
	if cfg.BalanceDecimals <= 0 {
		cfg.BalanceDecimals = 4
	}
	if strings.TrimSpace(cfg.Wallet.PaymentAmount) == "" {
		cfg.Wallet.PaymentAmount = "0.01"
	}
	return cfg, nil
}

// Validate returns the list of structural problems with the config.
func Validate(cfg Config) []string {
	var errs []string
	if strings.TrimSpace(cfg.SummarizerURL) == "" {
		errs = append(errs, "summarizer_url is required")
	}
	if strings.TrimSpace(cfg.Chain.RPCURL) == "" {
		errs = append(errs, "chain.rpc_url is required")
	}
	if _, err := utils.EtherToWei(cfg.Wallet.PaymentAmount); err != nil {
		errs = append(errs, fmt.Sprintf("wallet.payment_amount: %v", err))
	}
	return errs
}

func Save(cfg Config, path string) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
