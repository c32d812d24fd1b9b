package tui

import (
	"time"

	"aisum/pkg/config"
	"aisum/pkg/history"
	"aisum/pkg/models"
	"aisum/pkg/summarize"
	"aisum/pkg/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Version is set by Start()
var Version = "dev"

// Progress notices shown in the thought log during a submission cycle.
const (
	thoughtFetchVideo   = "Fetching video transcript..."
	thoughtFetchWiki    = "Fetching Wikipedia content..."
	thoughtGenerating   = "Generating summary..."
	thoughtDone         = "Summary generated successfully!"
	thoughtError        = "Error occurred during summarization."
	genericFailureText  = "An error occurred while generating the summary."
	paymentSuccessText  = "Payment successful!"
	paymentFailureText  = "Payment failed. Please try again."
	statusClearInterval = 3 * time.Second
)

// --- Messages ---

type summaryResultMsg models.SummaryResult
type summaryRevealMsg models.SummaryResult
type connectResultMsg struct{ err error }
type paymentResultMsg models.PaymentResult
type walletEventMsg wallet.Event
type clearStatusMsg struct{}

// --- Model ---

type model struct {
	cfg       config.Config
	client    *summarize.Client
	cache     *history.Cache
	session   *wallet.Session
	tracker   *wallet.Tracker
	submitter *wallet.Submitter
	walletSub wallet.Subscriber
	prefsPath string

	activeMode  models.Mode
	videoInput  textinput.Model
	wikiInput   textinput.Model
	summarizing bool
	thoughts    []string
	summary     string
	summaryMode models.Mode

	walletState    models.WalletState
	account        string
	balance        *models.BalanceData
	balancePoints  []models.BalancePoint
	paying         bool
	showGraph      bool
	historyCursor  int
	statusMessage  string
	statusIsError  bool
	theme          string
	styles         styleSet
	renderer       *glamour.TermRenderer
	spinner        spinner.Model
	viewport       viewport.Model
	width          int
	height         int
}

func initialModel(cfg config.Config, client *summarize.Client, cache *history.Cache,
	session *wallet.Session, tracker *wallet.Tracker, submitter *wallet.Submitter,
	theme, prefsPath string) model {

	vi := textinput.New()
	vi.Placeholder = "Enter YouTube video URL"
	vi.Width = 60
	vi.Focus()

	wi := textinput.New()
	wi.Placeholder = "Ask a question for Wikipedia summary"
	wi.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	vp := viewport.New(0, 0)

	m := model{
		cfg:           cfg,
		client:        client,
		cache:         cache,
		session:       session,
		tracker:       tracker,
		submitter:     submitter,
		walletSub:     session.Subscribe(),
		prefsPath:     prefsPath,
		activeMode:    models.ModeYouTube,
		videoInput:    vi,
		wikiInput:     wi,
		walletState:   models.WalletDisconnected,
		historyCursor: -1,
		theme:         theme,
		styles:        newStyles(theme),
		spinner:       s,
		viewport:      vp,
	}
	m.renderer = newRenderer(theme, 76)
	return m
}

func newRenderer(theme string, width int) *glamour.TermRenderer {
	if width <= 0 {
		width = 76
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath(theme),
		glamour.WithWordWrap(width),
	)
	return r
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listenForWallet(m.walletSub),
		m.spinner.Tick,
		textinput.Blink,
	)
}
