package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshtwist/go-throughput/config"
	"github.com/joshtwist/go-throughput/metrics"
	"github.com/joshtwist/go-throughput/server"
	"github.com/joshtwist/go-throughput/store"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:          "throughput [port]",
		Short:        "Count hits on / and report throughput per interval",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath, host, port, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Listen host")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Listen port")

	return cmd
}

// loadConfig reads the config file and applies flag and argument overrides.
// A positional port wins over --port.
func loadConfig(cmd *cobra.Command, path, host string, port int, args []string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid port argument: %w", err)
		}
		cfg.Port = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run wires the shared store into the reset loop and the HTTP server and
// blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()
	st := store.NewStore(func(r store.Report) {
		store.LogReport(r)
		m.ObserveReset(r.Throughput)
	})

	srv, err := server.New(st, cfg.CORS, m)
	if err != nil {
		return err
	}

	go st.RunResetLoop(ctx, cfg.ResetInterval)
	log.Printf("Resetting throughput every %s", cfg.ResetInterval)

	return srv.Run(ctx, cfg.Addr())
}
