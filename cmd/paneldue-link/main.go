// Command paneldue-link keeps a panel session with a controller.
//
// It opens the serial or network link, runs the poll loop and keeps the
// object model current. The model can be inspected from an interactive
// console and through a read-only HTTP API.
//
// Usage:
//
//	paneldue-link [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-port string          Serial device, e.g. /dev/ttyACM0
//	-baud int             Serial baud rate (default 57600)
//	-address string       Controller host[:port] for a TCP link
//	-discover             Find the controller with mDNS
//	-poll duration        Poll interval (default 1s)
//	-slow-poll duration   Poll interval while idle (default 4s)
//	-poll-timeout duration  Time to wait for a response (default 4s)
//	-fetch string         Comma-separated subsystems to fetch
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-file string      Write the operational log to a rotated file
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-trace                Also write protocol events to the operational log
//	-http string          Listen address for the status API, e.g. :8080
//	-interactive          Enable interactive command mode
//	-state-dir string     Directory for persistent state (last known controller)
//
// Examples:
//
//	# Serial link with the console
//	paneldue-link -port /dev/ttyACM0 -interactive
//
//	# Network link found by mDNS, with the status API and a protocol trace
//	paneldue-link -discover -http :8080 -protocol-log /var/log/paneldue.plog
//
// Interactive Commands:
//
//	show [section[/index]] - Show the object model
//	gcode <line>           - Send a G-code command
//	seqs                   - Show subsystem sequence numbers
//	status                 - Show link status
//	quit                   - Exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/paneldue/paneldue-go/cmd/paneldue-link/interactive"
	"github.com/paneldue/paneldue-go/pkg/api"
	"github.com/paneldue/paneldue-go/pkg/connection"
	"github.com/paneldue/paneldue-go/pkg/discovery"
	"github.com/paneldue/paneldue-go/pkg/link"
	plog "github.com/paneldue/paneldue-go/pkg/log"
	"github.com/paneldue/paneldue-go/pkg/metrics"
	"github.com/paneldue/paneldue-go/pkg/persistence"
	"github.com/paneldue/paneldue-go/pkg/transport"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionID := uuid.New().String()
	var mgr *connection.Manager

	// The console owns the terminal; logs go through it so the prompt is
	// redrawn.
	var console *interactive.Console
	var lateLink lazyLink
	if cfg.Interactive {
		console, err = interactive.New(&lateLink, func() string { return mgr.State().String() })
		if err != nil {
			log.Fatalf("Failed to start console: %v", err)
		}
	}

	logger, closeLog, err := setupLogging(&cfg, console)
	if err != nil {
		log.Fatalf("Invalid logging configuration: %v", err)
	}
	defer closeLog()

	protocolLogger, closeTrace := setupProtocolLog(&cfg, logger)
	defer closeTrace()

	pollConfig, err := cfg.PollConfig()
	if err != nil {
		log.Fatalf("Invalid fetch list: %v", err)
	}

	var store *persistence.LinkStateStore
	if cfg.StateDir != "" {
		store = persistence.NewDirStore(cfg.StateDir)
	}

	dialer, err := resolveDialer(ctx, &cfg, store, logger)
	if err != nil {
		log.Fatalf("No controller: %v", err)
	}
	logger.Info("paneldue-link starting", "endpoint", dialer.Endpoint(), "session", sessionID)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	connConfig := connection.DefaultConfig(dialer)
	connConfig.Redial = cfg.Redial
	if connConfig.Redial.Initial == 0 {
		connConfig.Redial.Initial = pollConfig.PollTimeout
	}
	connConfig.Logger = logger
	connConfig.Conn = transport.ConnConfig{
		Logger:    logger,
		SessionID: sessionID,
	}
	if protocolLogger != nil {
		connConfig.Conn.ProtocolLogger = protocolLogger
	}
	mgr = connection.NewManager(connConfig)

	sessionConfig := link.DefaultConfig()
	sessionConfig.Poll = pollConfig
	sessionConfig.SessionID = sessionID
	sessionConfig.Logger = logger
	sessionConfig.Metrics = m
	if protocolLogger != nil {
		sessionConfig.ProtocolLogger = protocolLogger
	}
	session := link.NewSession(sessionConfig, mgr)
	lateLink.Link = session

	mgr.OnStateChange(func(oldState, newState connection.State) {
		m.SetLinkState(newState.String())
		if oldState == connection.StateConnected {
			session.ConnectionLost()
		}
		if _, network := dialer.(transport.TCPDialer); network && newState == connection.StateConnected && store != nil {
			rememberEndpoint(store, dialer.Endpoint(), logger)
		}
	})
	mgr.OnReconnecting(func(attempt int, delay time.Duration) {
		logger.Warn("controller link down, redialing", "attempt", attempt, "delay", delay)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mgr.Run(gctx, session.Queue())
	})
	g.Go(func() error {
		return session.Run(gctx, link.NewSystemClock(), link.DefaultTickInterval)
	})

	var server *http.Server
	if cfg.HTTP != "" {
		server = &http.Server{
			Addr: cfg.HTTP,
			Handler: api.NewHandler(session, api.Config{
				Gatherer:  reg,
				LinkState: func() string { return mgr.State().String() },
				Logger:    logger,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("status API listening", "addr", cfg.HTTP)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status API: %w", err)
			}
			return nil
		})
	}

	if console != nil {
		go console.Run(gctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	case <-gctx.Done():
	}

	logger.Info("shutting down")
	cancel()
	mgr.Close()
	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		_ = server.Shutdown(shutdownCtx)
		done()
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("link stopped", "error", err)
	}

	st := session.Stats()
	if store != nil && st.Restarts > 0 {
		if err := store.Update(func(s *persistence.LinkState) { s.Restarts += st.Restarts }); err != nil {
			logger.Warn("failed to save state", "error", err)
		}
	}
	logger.Info("goodbye", "ticks", st.Ticks, "restarts", st.Restarts, "resends", st.Poll.Resends)
}

// lazyLink lets the console be created before the session exists.
type lazyLink struct {
	interactive.Link
}

func setupLogging(cfg *Config, console *interactive.Console) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	if console != nil {
		out = console.Stdout()
	}
	closeFn := func() {}
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
		}
		out = io.MultiWriter(out, file)
		closeFn = func() { _ = file.Close() }
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(out)

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// setupProtocolLog returns the protocol logger, or nil when tracing is off.
func setupProtocolLog(cfg *Config, logger *slog.Logger) (*plog.MultiLogger, func()) {
	var sinks []plog.Logger
	closeFn := func() {}

	if cfg.ProtocolLog != "" {
		file := plog.NewRotatingLogger(plog.RotationConfig{Path: cfg.ProtocolLog})
		sinks = append(sinks, file)
		closeFn = func() { _ = file.Close() }
		logger.Info("protocol logging", "path", cfg.ProtocolLog)
	}
	if cfg.TraceLog {
		sinks = append(sinks, plog.NewSlogAdapter(logger))
	}
	if len(sinks) == 0 {
		return nil, closeFn
	}
	return plog.NewMultiLogger(sinks...), closeFn
}

// resolveDialer picks the configured endpoint, falling back to mDNS and
// then to the last controller saved in store.
func resolveDialer(ctx context.Context, cfg *Config, store *persistence.LinkStateStore, logger *slog.Logger) (transport.Dialer, error) {
	d, err := cfg.StaticDialer()
	if err == nil || !errors.Is(err, ErrNoEndpoint) || !cfg.Discover {
		return d, err
	}

	logger.Info("browsing for controllers", "service", cfg.Discovery.ServiceType)
	browser := discovery.NewMDNSBrowser(cfg.Discovery)
	defer browser.Stop()

	c, err := browser.FindFirst(ctx)
	if err == nil {
		var addr string
		addr, err = c.Address()
		if err == nil {
			logger.Info("controller found", "name", c.Name(), "address", addr, "board", c.Board, "firmware", c.Firmware)
			if store != nil {
				saveDiscovered(store, c, addr, logger)
			}
			return transport.TCPDialer{Address: addr}, nil
		}
	}

	if known := lastController(store); known != nil {
		logger.Warn("discovery failed, using last known controller", "error", err, "endpoint", known.Endpoint)
		return transport.TCPDialer{Address: known.Endpoint}, nil
	}
	return nil, err
}

func lastController(store *persistence.LinkStateStore) *persistence.KnownController {
	if store == nil {
		return nil
	}
	state, err := store.Load()
	if err != nil || state == nil || state.Controller == nil || state.Controller.Endpoint == "" {
		return nil
	}
	return state.Controller
}

func saveDiscovered(store *persistence.LinkStateStore, c *discovery.Controller, addr string, logger *slog.Logger) {
	err := store.Update(func(s *persistence.LinkState) {
		s.Controller = &persistence.KnownController{
			Endpoint: addr,
			Instance: c.Instance,
			Board:    c.Board,
			Firmware: c.Firmware,
		}
	})
	if err != nil {
		logger.Warn("failed to save state", "error", err)
	}
}

// rememberEndpoint records a successful network connect.
func rememberEndpoint(store *persistence.LinkStateStore, endpoint string, logger *slog.Logger) {
	err := store.Update(func(s *persistence.LinkState) {
		if s.Controller == nil || s.Controller.Endpoint != endpoint {
			s.Controller = &persistence.KnownController{Endpoint: endpoint}
		}
		s.Controller.LastSeenAt = time.Now()
	})
	if err != nil {
		logger.Warn("failed to save state", "error", err)
	}
}
