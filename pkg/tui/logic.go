package tui

import (
	"context"
	"strings"
	"time"

	"aisum/pkg/models"
	"aisum/pkg/summarize"
	"aisum/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

func fetchNotice(mode models.Mode) string {
	if mode == models.ModeYouTube {
		return thoughtFetchVideo
	}
	return thoughtFetchWiki
}

// activeBuffer returns the trimmed text of the input for the active mode.
func (m model) activeBuffer() string {
	if m.activeMode == models.ModeYouTube {
		return strings.TrimSpace(m.videoInput.Value())
	}
	return strings.TrimSpace(m.wikiInput.Value())
}

// setActiveMode switches tabs without touching either buffer.
func (m *model) setActiveMode(mode models.Mode) {
	m.activeMode = mode
	if mode == models.ModeYouTube {
		m.videoInput.Focus()
		m.wikiInput.Blur()
	} else {
		m.wikiInput.Focus()
		m.videoInput.Blur()
	}
}

// toggleMode flips between the two query modes.
func (m *model) toggleMode() {
	if m.activeMode == models.ModeYouTube {
		m.setActiveMode(models.ModeWikipedia)
	} else {
		m.setActiveMode(models.ModeYouTube)
	}
}

// submit starts a new summarization cycle. A second submit while one is
// in flight is a no-op, as is submitting an empty buffer.
func (m model) submit() (model, tea.Cmd) {
	if m.summarizing {
		return m, nil
	}
	text := m.activeBuffer()
	if text == "" {
		return m, nil
	}

	q := models.Query{Mode: m.activeMode, Text: text}
	m.summary = ""
	m.summarizing = true
	m.thoughts = []string{fetchNotice(q.Mode)}
	return m, summarizeCmd(m.client, q)
}

// loadFromHistory restores an entry's mode and buffer without submitting.
func (m *model) loadFromHistory(entry models.HistoryEntry) {
	m.setActiveMode(entry.Mode)
	if entry.Mode == models.ModeYouTube {
		m.videoInput.SetValue(entry.Text)
	} else {
		m.wikiInput.SetValue(entry.Text)
	}
}

func summarizeCmd(client *summarize.Client, q models.Query) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.Summarize(context.Background(), q)
		return summaryResultMsg{Query: q, Summary: summary, Err: err}
	}
}

// revealCmd delays the final log line to pace the UI; the delay carries
// no functional dependency and may be zero.
func revealCmd(delay time.Duration, res summaryResultMsg) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return summaryRevealMsg(res) }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return summaryRevealMsg(res) })
}

func connectCmd(session *wallet.Session) tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{err: session.Connect(context.Background())}
	}
}

func payCmd(submitter *wallet.Submitter) tea.Cmd {
	return func() tea.Msg {
		hash, err := submitter.Pay(context.Background())
		return paymentResultMsg{TxHash: hash, Err: err}
	}
}

func listenForWallet(sub wallet.Subscriber) tea.Cmd {
	return func() tea.Msg {
		return walletEventMsg(<-sub)
	}
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusClearInterval, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
