package tui

import (
	"fmt"
	"strings"

	"aisum/pkg/models"
	"aisum/pkg/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

func (m model) View() string {
	var sections []string

	sections = append(sections, m.viewHeader())
	sections = append(sections, m.viewInput())

	if len(m.thoughts) > 0 {
		sections = append(sections, m.viewThoughts())
	}
	if m.summary != "" {
		sections = append(sections, m.viewSummary())
	}
	if entries := m.cache.List(); len(entries) > 0 {
		sections = append(sections, m.viewHistory(entries))
	}
	sections = append(sections, m.viewWallet())

	if m.statusMessage != "" {
		style := m.styles.info
		if m.statusIsError {
			style = m.styles.err
		}
		sections = append(sections, style.Render(m.statusMessage))
	}

	sections = append(sections, m.styles.subtle.Render(
		"tab: switch • enter: summarize • ^r/^o: history • ^w: wallet • ^p: pay • ^t: theme • ^y: copy • esc: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m model) viewHeader() string {
	youtube := m.styles.tabInactive.Render("YouTube")
	wiki := m.styles.tabInactive.Render("Wikipedia")
	if m.activeMode == models.ModeYouTube {
		youtube = m.styles.tabActive.Render("YouTube")
	} else {
		wiki = m.styles.tabActive.Render("Wikipedia")
	}
	title := m.styles.title.Render(fmt.Sprintf("AI Summarizer %s", Version))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, youtube, wiki))
}

func (m model) viewInput() string {
	var input string
	if m.activeMode == models.ModeYouTube {
		input = m.videoInput.View()
	} else {
		input = m.wikiInput.View()
	}

	button := "Summarize"
	if m.summarizing {
		button = m.spinner.View() + " Summarizing..."
	}
	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, input, m.styles.subtle.Render(button)))
}

func (m model) viewThoughts() string {
	var lines []string
	lines = append(lines, m.styles.info.Render("AI Thoughts"))
	for _, t := range m.thoughts {
		lines = append(lines, m.styles.thought.Render(t))
	}
	return m.styles.box.Render(strings.Join(lines, "\n"))
}

func (m model) viewSummary() string {
	header := "Wikipedia Summary"
	if m.summaryMode == models.ModeYouTube {
		header = "Video Summary"
	}
	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.info.Render(header),
		m.viewport.View(),
	))
}

func (m model) viewHistory(entries []models.HistoryEntry) string {
	var lines []string
	lines = append(lines, m.styles.info.Render("Recent Searches"))
	for i, e := range entries {
		label := "[wiki]"
		if e.Mode == models.ModeYouTube {
			label = "[yt]  "
		}
		line := fmt.Sprintf("%s %s", label, utils.TruncateString(e.Text, 60))
		if i == m.historyCursor {
			line = m.styles.tabActive.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.styles.box.Render(strings.Join(lines, "\n"))
}

func (m model) viewWallet() string {
	switch m.walletState {
	case models.WalletConnecting:
		return m.styles.box.Render(m.styles.subtle.Render("Connecting to wallet..."))

	case models.WalletConnected:
		var lines []string
		lines = append(lines, m.styles.info.Render("Wallet"))
		lines = append(lines, fmt.Sprintf("Connected with %s", utils.TruncateString(m.account, 24)))
		if m.balance != nil {
			lines = append(lines, fmt.Sprintf("Balance: %s %s", m.balance.Value, m.cfg.Chain.Symbol))
		} else {
			lines = append(lines, m.styles.subtle.Render("Balance: fetching..."))
		}
		lines = append(lines, m.styles.subtle.Render(
			fmt.Sprintf("^p: pay %s %s • ^w: disconnect • ^g: graph", m.cfg.Wallet.PaymentAmount, m.cfg.Chain.Symbol)))
		if m.paying {
			lines = append(lines, m.styles.subtle.Render(m.spinner.View()+" Sending payment..."))
		}
		if m.showGraph {
			lines = append(lines, m.viewBalanceGraph())
		}
		return m.styles.box.Render(strings.Join(lines, "\n"))

	default:
		return m.styles.box.Render(m.styles.subtle.Render("Wallet disconnected • ^w: connect"))
	}
}

func (m model) viewBalanceGraph() string {
	if len(m.balancePoints) < 2 {
		return m.styles.subtle.Render("Not enough balance samples yet.")
	}
	data := make([]float64, len(m.balancePoints))
	for i, p := range m.balancePoints {
		data[i] = p.Value
	}
	return asciigraph.Plot(data,
		asciigraph.Height(6),
		asciigraph.Caption(fmt.Sprintf("%s balance", m.cfg.Chain.Symbol)),
	)
}
