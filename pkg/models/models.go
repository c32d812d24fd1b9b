package models

import "time"

// Mode selects which kind of content a query summarizes.
type Mode string

const (
	ModeYouTube   Mode = "youtube"
	ModeWikipedia Mode = "wiki"
)

// Query is a single summarization request as submitted by the user.
// Text holds a video URL in YouTube mode and a free-text question in
// Wikipedia mode.
type Query struct {
	Mode Mode   `json:"mode"`
	Text string `json:"text"`
}

// HistoryEntry is a past query kept in the rolling history.
type HistoryEntry struct {
	Mode Mode   `json:"mode"`
	Text string `json:"text"`
}

// SummaryResult carries the outcome of one summarization cycle.
type SummaryResult struct {
	Query   Query
	Summary string
	Err     error
}

// WalletState is the connection lifecycle state of the wallet session.
type WalletState int

const (
	WalletDisconnected WalletState = iota
	WalletConnecting
	WalletConnected
)

func (s WalletState) String() string {
	switch s {
	case WalletConnecting:
		return "connecting"
	case WalletConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// BalanceData is the published balance view for the currently connected
// account. Value is the native balance converted from wei to a decimal
// string.
type BalanceData struct {
	Account string `json:"account"`
	Value   string `json:"value"`
}

// BalancePoint holds a timestamped balance sample for the graph pane.
type BalancePoint struct {
	Timestamp time.Time
	Value     float64
}

// PaymentResult carries the outcome of a payment attempt.
type PaymentResult struct {
	TxHash string
	Err    error
}

// EndpointResult holds check results for a single remote endpoint.
type EndpointResult struct {
	URL    string `json:"url"`
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// CheckReport holds the results of the configuration check mode.
type CheckReport struct {
	ConfigPath      string           `json:"config_path"`
	ValidStructure  bool             `json:"valid_structure"`
	StructureErrors []string         `json:"structure_errors,omitempty"`
	Summarizer      *EndpointResult  `json:"summarizer,omitempty"`
	RPCs            []EndpointResult `json:"rpcs,omitempty"`
	DryRun          bool             `json:"dry_run"`
}
