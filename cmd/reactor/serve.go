package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/inspect"
	"github.com/vango-dev/reactor/pkg/reactor"
)

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live model over HTTP and websocket",
		Long: `Serve a todo list that changes on every tick.

Routes:
  GET /objects   JSON snapshots
  GET /ws        websocket change feed
  GET /metrics   Prometheus metrics (when metrics are enabled)

Examples:
  reactor serve
  reactor serve --addr=0.0.0.0:7070
  reactor serve --config=reactor.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}

func runServe(configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Inspect.Addr = addr
	}

	logger, reg := setup(cfg)
	defer reactor.SetObserver(nil)

	opts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithAllowedOrigins(cfg.Inspect.AllowedOrigins...),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, inspect.WithGatherer(reg))
	}
	hub := inspect.NewHub(opts...)

	var l *reactor.Object
	hub.Do(func() { l = newTodoList("inbox", "read mail") })
	if err := hub.Watch("todos", l); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go tick(ctx, hub, l, cfg.TickInterval(), logger)

	success("Serving on http://%s", cfg.Inspect.Addr)
	return hub.ListenAndServe(ctx, cfg.Inspect.Addr)
}

// tick mutates l on every interval: add, finish, and every fourth tick
// clear finished items.
func tick(ctx context.Context, hub *inspect.Hub, l *reactor.Object, every time.Duration, logger *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		hub.Do(func() {
			switch n % 4 {
			case 0:
				logger.Debug("serve: clearing", slog.Int("removed", clearDone(l)))
			case 2:
				toggle(l, 0)
			default:
				addTodo(l, fmt.Sprintf("task %d", n))
			}
		})
	}
}
