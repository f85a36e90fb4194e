// Package main provides the gridrelay store monitor binary.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gridrelay/src/config"
	"gridrelay/src/store"
	"gridrelay/src/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "ERROR: GRIDRELAY_POSTGRES_DSN is required for the monitor")
		fmt.Fprintln(os.Stderr, "The monitor inspects a broker's persistent store; an in-memory store is process-local.")
		os.Exit(1)
	}

	st, err := store.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open event store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	p := tea.NewProgram(tui.NewMonitor(st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Monitor error: %v\n", err)
		os.Exit(1)
	}
}
