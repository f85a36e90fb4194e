// Package main provides the gridrelay MCP server binary. It exposes the
// event store over stdio for operator tooling.
package main

import (
	"fmt"
	"os"

	"gridrelay/src/config"
	"gridrelay/src/mcp"
	"gridrelay/src/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "ERROR: GRIDRELAY_POSTGRES_DSN is required for the MCP server")
		os.Exit(1)
	}

	st, err := store.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open event store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	srv := mcp.NewServer(st)
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
