// Package main provides the gridrelay broker binary. A broker runs in
// server mode (serves replay requests to a downstream peer) or client
// mode (catches up from an upstream peer); both modes run the live relay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gridrelay/src/broker"
	"gridrelay/src/config"
	"gridrelay/src/live"
	"gridrelay/src/logger"
	"gridrelay/src/replay"
	"gridrelay/src/store"
	"gridrelay/src/transport"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridrelay",
	Short: "gridrelay - a store-and-forward broker for telemetry pipelines",
	Long: `gridrelay relays live telemetry between an edge producer and a
cloud consumer and lets a reconnecting peer replay the events it missed.

Modes:
- server: answers replay requests from a downstream peer out of the store
- client: periodically catches up from an upstream replay server

Both modes relay live traffic. Storage and the live channel are selected
by environment: GRIDRELAY_POSTGRES_DSN (else in-memory store) and
GRIDRELAY_REDPANDA_BROKERS (else in-memory broker).`,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve replay requests to a downstream peer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Catch up from an upstream replay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient()
	},
}

func main() {
	rootCmd.AddCommand(serverCmd, clientCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runServer runs the live relay plus the replay server.
func runServer() error {
	cfg := config.MustLoadFromEnv()
	log := logger.NewConsoleLogger()

	st, brk, err := openCollaborators(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	defer brk.Close()

	responder, err := transport.NewTCPResponder(cfg.ReplayBind)
	if err != nil {
		return err
	}
	log.Info("Replay server bound on %s", cfg.ReplayBind)

	ctx, cancel := signalContext(log)
	defer cancel()

	// Receive blocks on the socket; closing the responder unblocks it
	go func() {
		<-ctx.Done()
		responder.Close()
	}()

	go func() {
		relay := live.NewRelay(brk, st, log, cfg.EdgeTopic, cfg.ServerTopic, cfg.GroupID)
		if err := relay.Run(ctx); err != nil && err != context.Canceled {
			log.Error("Relay stopped: %v", err)
		}
	}()

	server := replay.NewServer(st, responder, log, cfg.PollDelay)
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	log.Info("Broker stopped")
	return nil
}

// runClient runs the live relay plus the periodic replay request loop.
func runClient() error {
	cfg := config.MustLoadFromEnv()
	log := logger.NewConsoleLogger()

	if cfg.ReplayUpstream == "" {
		return fmt.Errorf("GRIDRELAY_REPLAY_UPSTREAM is required in client mode")
	}

	st, brk, err := openCollaborators(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	defer brk.Close()

	ctx, cancel := signalContext(log)
	defer cancel()

	client, err := replay.NewClient(ctx, st, transport.NewTCPRequester(), cfg.ReplayUpstream, log, cfg.RequestInterval, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	go func() {
		relay := live.NewRelay(brk, st, log, cfg.EdgeTopic, cfg.ServerTopic, cfg.GroupID)
		if err := relay.Run(ctx); err != nil && err != context.Canceled {
			log.Error("Relay stopped: %v", err)
		}
	}()

	if err := client.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	log.Info("Broker stopped")
	return nil
}

// openCollaborators selects the store and live broker from configuration.
func openCollaborators(cfg *config.Config, log logger.Logger) (store.EventStore, broker.Broker, error) {
	var st store.EventStore
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open event store: %w", err)
		}
		log.Info("Using Postgres event store")
		st = pg
	} else {
		log.Info("No GRIDRELAY_POSTGRES_DSN set, using in-memory event store")
		st = store.NewMemoryStore()
	}

	var brk broker.Broker
	if len(cfg.RedpandaBrokers) > 0 {
		rp, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers, log)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("failed to connect live broker: %w", err)
		}
		log.Info("Using Redpanda live broker: %v", cfg.RedpandaBrokers)
		brk = rp
	} else {
		log.Info("No GRIDRELAY_REDPANDA_BROKERS set, using in-memory live broker")
		brk = broker.NewInMemoryBroker()
	}

	return st, brk, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping broker...")
		cancel()
	}()

	return ctx, cancel
}
