package tui

import (
	"fmt"
	"os"

	"aisum/pkg/config"
	"aisum/pkg/history"
	"aisum/pkg/summarize"
	"aisum/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

func Start(cfg config.Config, client *summarize.Client, cache *history.Cache,
	session *wallet.Session, tracker *wallet.Tracker, submitter *wallet.Submitter,
	theme, prefsPath, version string) {
	Version = version
	p := tea.NewProgram(
		initialModel(cfg, client, cache, session, tracker, submitter, theme, prefsPath),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
