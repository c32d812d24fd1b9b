package tui

import (
	"time"

	"aisum/pkg/models"
	"aisum/pkg/prefs"
	"aisum/pkg/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case summaryResultMsg:
		if msg.Err != nil {
			m.thoughts = append(m.thoughts, thoughtError)
			m.summary = genericFailureText
			m.summaryMode = msg.Query.Mode
			m.summarizing = false
			m.setSummaryContent()
			break
		}
		m.thoughts = append(m.thoughts, thoughtGenerating)
		cmds = append(cmds, revealCmd(time.Duration(m.cfg.ThinkingDelayMS)*time.Millisecond, msg))

	case summaryRevealMsg:
		m.thoughts = append(m.thoughts, thoughtDone)
		m.summary = msg.Summary
		m.summaryMode = msg.Query.Mode
		m.summarizing = false
		m.cache.Record(models.HistoryEntry{Mode: msg.Query.Mode, Text: msg.Query.Text})
		m.historyCursor = -1
		m.setSummaryContent()

	case walletEventMsg:
		cmds = append(cmds, listenForWallet(m.walletSub))
		switch msg.Type {
		case wallet.EventStateChanged:
			if state, ok := msg.Data.(models.WalletState); ok {
				m.walletState = state
				m.account = m.session.Account()
				if state == models.WalletDisconnected {
					m.balance = nil
					m.balancePoints = nil
					m.showGraph = false
				}
			}
		case wallet.EventBalanceUpdated:
			if data, ok := msg.Data.(models.BalanceData); ok {
				m.balance = &data
				m.balancePoints = m.tracker.History()
			}
		case wallet.EventBalanceCleared:
			m.balance = nil
			m.balancePoints = nil
		}

	case connectResultMsg:
		if msg.err != nil {
			m.statusMessage = "Wallet connection failed"
			m.statusIsError = true
			cmds = append(cmds, clearStatusCmd())
		}

	case paymentResultMsg:
		m.paying = false
		if msg.Err != nil {
			m.statusMessage = paymentFailureText
			m.statusIsError = true
		} else {
			m.statusMessage = paymentSuccessText
			m.statusIsError = false
		}
		cmds = append(cmds, clearStatusCmd())

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = 12
		m.renderer = newRenderer(m.theme, msg.Width-8)
		m.setSummaryContent()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			m.toggleMode()
			return m, nil

		case "enter":
			var cmd tea.Cmd
			m, cmd = m.submit()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)

		case "ctrl+t":
			if m.theme == prefs.ThemeLight {
				m.theme = prefs.ThemeDark
			} else {
				m.theme = prefs.ThemeLight
			}
			m.styles = newStyles(m.theme)
			m.renderer = newRenderer(m.theme, m.width-8)
			m.setSummaryContent()
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme}); err != nil {
				m.statusMessage = "Failed to save theme preference"
				m.statusIsError = true
				cmds = append(cmds, clearStatusCmd())
			}

		case "ctrl+w":
			switch m.walletState {
			case models.WalletDisconnected:
				cmds = append(cmds, connectCmd(m.session))
			case models.WalletConnected:
				m.session.Disconnect()
			}

		case "ctrl+p":
			if m.walletState == models.WalletConnected && !m.paying {
				m.paying = true
				cmds = append(cmds, payCmd(m.submitter))
			}

		case "ctrl+g":
			if m.walletState == models.WalletConnected {
				m.showGraph = !m.showGraph
			}

		case "ctrl+y":
			if m.summary != "" {
				if err := clipboard.WriteAll(m.summary); err != nil {
					m.statusMessage = "Failed to copy to clipboard"
					m.statusIsError = true
				} else {
					m.statusMessage = "Summary copied to clipboard!"
					m.statusIsError = false
				}
				cmds = append(cmds, clearStatusCmd())
			}

		case "ctrl+r":
			if n := m.cache.Len(); n > 0 {
				m.historyCursor = (m.historyCursor + 1) % n
			}

		case "ctrl+o":
			if entry, err := m.cache.Select(m.historyCursor); err == nil {
				m.loadFromHistory(entry)
			}

		case "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)

		default:
			var cmd tea.Cmd
			if m.activeMode == models.ModeYouTube {
				m.videoInput, cmd = m.videoInput.Update(msg)
			} else {
				m.wikiInput, cmd = m.wikiInput.Update(msg)
			}
			cmds = append(cmds, cmd)
		}
	}

	if m.summarizing {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// setSummaryContent re-renders the summary into the viewport.
func (m *model) setSummaryContent() {
	if m.summary == "" {
		m.viewport.SetContent("")
		return
	}
	rendered := m.summary
	if m.renderer != nil {
		if out, err := m.renderer.Render(m.summary); err == nil {
			rendered = out
		}
	}
	m.viewport.SetContent(rendered)
}
