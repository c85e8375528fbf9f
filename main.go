package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nstehr/parselord/agent"
	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/ipc"
	"github.com/nstehr/parselord/metrics"
	"github.com/nstehr/parselord/rotation"
)

const banner = `
 ___  ___  ___  ___  ___  _     ___  ___  ___
| _ \/ _ \| _ \/ __|| __|| |   / _ \| _ \|   \
|  _/ /_\ \   /\__ \| _| | |__| (_) |   /| |) |
|_|/_/   \_\_|_\|___/|___||____|\___/|_|_\|___/

Rotation Decision Sidecar`

func main() {
	var (
		socketPath  string
		configPath  string
		metricsAddr string
		debug       bool
	)
	flag.StringVar(&socketPath, "socket", "/tmp/parselord.sock", "Unix domain socket the host plugin connects to.")
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path of the YAML configuration file.")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus metrics endpoint, e.g. :9090. Empty disables it.")
	flag.BoolVar(&debug, "debug", false, "Log every tick at debug level.")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting parselord")

	store, err := config.Open(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	slog.Info("config loaded", "path", store.Path(), "enabled", store.Snapshot().Enabled)

	// Job tables are compiled once up front so a broken condition fails here,
	// not on the first connection.
	if _, err := rotation.NewJobLogics(rotation.Builtin(), nil, nil); err != nil {
		slog.Error("invalid job table", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, store, func() {
			metrics.RecordConfigReload()
			slog.Info("config reloaded", "path", store.Path(), "enabled", store.Snapshot().Enabled)
		})
		if err != nil {
			slog.Error("config watcher stopped", "error", err)
		}
	}()

	if metricsAddr != "" {
		go serveMetrics(ctx, metricsAddr)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(conn, store)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func handleConn(conn net.Conn, store *config.Store) {
	a, err := agent.New(ipc.NewConnection(conn, nil), store)
	if err != nil {
		slog.Error("failed to start session", "error", err)
		conn.Close()
		return
	}
	a.Serve()
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server failed", "error", err)
	}
}
