// Package orchestrator wires a grid widget to its outer services: the TUI
// program or a headless owner, the NATS change bus, the MCP control surface,
// on-change hooks and the config file watcher.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bitgrid/internal/config"
	"github.com/mark3labs/bitgrid/internal/hooks"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/mcpserver"
	"github.com/mark3labs/bitgrid/internal/nats"
	"github.com/mark3labs/bitgrid/internal/notify"
	"github.com/mark3labs/bitgrid/internal/tui"
	"github.com/mark3labs/bitgrid/internal/widget"
	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
)

// Config holds configuration for the orchestrator.
type Config struct {
	Grid         config.Config // Loaded configuration
	ConfigPath   string        // Explicit config file (optional)
	Headless     bool          // Run without TUI
	NATSStoreDir string        // JetStream storage (default: server temp dir)
	StateDir     string        // UI preferences (empty: not persisted)
	// ProgramOptions are passed to tea.NewProgram, e.g. to swap I/O in tests.
	ProgramOptions []tea.ProgramOption
}

// Orchestrator owns the widget and the services around it.
type Orchestrator struct {
	cfg Config

	ns        *natsserver.Server
	nc        *natsgo.Conn
	publisher *nats.Publisher
	hooks     *hooks.Runner

	widget  *widget.Widget // headless owner only
	app     *tui.App
	program *tea.Program
	exec    mcpserver.Executor
	tuiExec *tui.ProgramExecutor

	mcp     *mcpserver.Server
	watcher *config.Watcher

	tuiDone    chan struct{}
	tuiStarted bool
	ctx        context.Context
	cancel     context.CancelFunc
	stopped    bool
	mu         sync.Mutex
}

// New creates a new Orchestrator with the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Grid.NATS.Enabled && cfg.Grid.Name == "" {
		return nil, fmt.Errorf("grid name is required when publishing changes")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		tuiDone: make(chan struct{}),
	}, nil
}

// Start initializes all components. In TUI mode the program runs in the
// background; use Wait to block until it exits.
func (o *Orchestrator) Start() error {
	logger.Info("Starting grid '%s'", o.cfg.Grid.Name)

	if o.cfg.Grid.NATS.Enabled {
		if err := o.startNATS(); err != nil {
			return fmt.Errorf("failed to start NATS: %w", err)
		}
	}

	var listeners []notify.Listener
	if o.publisher != nil {
		listeners = append(listeners, o.publisher.Listener())
	}
	if len(o.cfg.Grid.Hooks.OnChange) > 0 {
		o.hooks = hooks.NewRunner(o.cfg.Grid.Hooks.OnChange, "")
		o.hooks.Start()
		listeners = append(listeners, o.hooks.Listener())
		logger.Info("Running %d on-change hook(s)", len(o.cfg.Grid.Hooks.OnChange))
	}

	opts := o.cfg.Grid.ToWidgetOptions()
	opts.OnChange = fanOut(listeners)

	if o.cfg.Headless {
		o.widget = widget.New(nil, opts)
		o.exec = mcpserver.NewLockedExecutor(o.widget)
	} else {
		o.app = tui.NewApp(opts)
		o.app.SetStateDir(o.cfg.StateDir)
		o.program = tea.NewProgram(o.app, o.cfg.ProgramOptions...)
		o.tuiExec = tui.NewProgramExecutor(o.program)
		o.exec = o.tuiExec
	}

	if o.cfg.Grid.MCP.Enabled {
		o.mcp = mcpserver.New(o.exec)
		if _, err := o.mcp.Start(o.ctx); err != nil {
			return fmt.Errorf("failed to start MCP server: %w", err)
		}
	}

	if o.cfg.Grid.WatchConfig {
		if err := o.startWatcher(); err != nil {
			// A missing config file is not fatal; the grid still runs.
			logger.Warn("Config watching disabled: %v", err)
		}
	}

	if o.program != nil {
		o.startTUI()
	}
	return nil
}

// fanOut combines listeners into one, called in order. Returns nil when
// there are none.
func fanOut(listeners []notify.Listener) notify.Listener {
	switch len(listeners) {
	case 0:
		return nil
	case 1:
		return listeners[0]
	}
	return func(ch notify.Change) {
		for _, fn := range listeners {
			fn(ch)
		}
	}
}

// startNATS starts the embedded server and connects to it in-process.
func (o *Orchestrator) startNATS() error {
	ns, err := nats.StartEmbeddedNATS(o.cfg.Grid.NATS.Port, o.cfg.NATSStoreDir)
	if err != nil {
		return err
	}
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return err
	}

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if _, err := nats.SetupStream(o.ctx, js); err != nil {
		_ = nats.Shutdown(nc, ns)
		return fmt.Errorf("failed to setup stream: %w", err)
	}

	o.ns = ns
	o.nc = nc
	o.publisher = nats.NewPublisher(nc)
	logger.Info("Publishing changes on %s", nats.SubjectForGrid(o.cfg.Grid.Name))
	return nil
}

func (o *Orchestrator) startWatcher() error {
	w, err := config.NewWatcher(o.cfg.ConfigPath, o.applyConfig)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	o.watcher = w
	return nil
}

// applyConfig pushes a reloaded configuration into the widget.
func (o *Orchestrator) applyConfig(cfg *config.Config) {
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.Warn("Logger reconfiguration failed: %v", err)
	}

	opts := cfg.ToWidgetOptions()
	if o.program != nil {
		o.program.Send(tui.ConfigReloadedMsg{Options: opts})
		return
	}

	err := o.exec.Exec(o.ctx, func(w *widget.Widget) {
		res := w.Update(opts)
		logger.Info("Config reloaded (rebuilt=%t)", res.Rebuilt)
	})
	if err != nil {
		logger.Warn("Config reload not applied: %v", err)
	}
}

// startTUI runs the bubbletea program in the background.
func (o *Orchestrator) startTUI() {
	o.tuiStarted = true
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "TUI panic: %v\n", r)
			}
			close(o.tuiDone)
		}()

		if _, err := o.program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		}
	}()

	if o.nc != nil {
		go o.program.Send(tui.ConnectionStatusMsg{Connected: o.nc.IsConnected()})
	}
	if o.mcp != nil {
		go o.program.Send(tui.ShowToastMsg{Text: "mcp " + o.mcp.URL()})
	}

	// A quit from the TUI ends the run.
	go func() {
		<-o.tuiDone
		logger.Debug("TUI quit detected, cancelling context")
		o.cancel()
	}()
}

// Wait blocks until the TUI exits or Stop is called.
func (o *Orchestrator) Wait() {
	<-o.ctx.Done()
}

// Exec runs fn against the widget on its owning goroutine.
func (o *Orchestrator) Exec(ctx context.Context, fn func(w *widget.Widget)) error {
	if o.exec == nil {
		return errors.New("orchestrator not started")
	}
	return o.exec.Exec(ctx, fn)
}

// Subscribe registers an extra change listener on the widget.
func (o *Orchestrator) Subscribe(ctx context.Context, fn notify.Listener) (unsubscribe func(), err error) {
	err = o.Exec(ctx, func(w *widget.Widget) {
		unsubscribe = w.Subscribe(fn)
	})
	return unsubscribe, err
}

// MCPURL returns the MCP endpoint, or "" when MCP is disabled.
func (o *Orchestrator) MCPURL() string {
	if o.mcp == nil {
		return ""
	}
	return o.mcp.URL()
}

// NATSURL returns the client URL of the embedded server, or "" when it is
// not listening on the network.
func (o *Orchestrator) NATSURL() string {
	if o.ns == nil || o.cfg.Grid.NATS.Port < 0 {
		return ""
	}
	return o.ns.ClientURL()
}

// Stop gracefully shuts down all components. Errors from each component are
// joined. Multiple calls to Stop() are safe.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return nil
	}
	o.stopped = true

	logger.Info("Stopping grid '%s'", o.cfg.Grid.Name)
	var errs []error

	o.cancel()

	if o.watcher != nil {
		if err := o.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("config watcher: %w", err))
		}
		o.watcher = nil
	}

	if o.mcp != nil {
		if err := o.mcp.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("MCP server: %w", err))
		}
		o.mcp = nil
	}

	if o.tuiExec != nil {
		o.tuiExec.Close()
	}

	if o.program != nil && o.tuiStarted {
		select {
		case <-o.tuiDone:
		default:
			o.program.Quit()
			select {
			case <-o.tuiDone:
			case <-time.After(2 * time.Second):
				logger.Warn("TUI shutdown timed out after 2s")
				errs = append(errs, fmt.Errorf("TUI shutdown timed out after 2s"))
			}
		}
	}
	o.program = nil

	if o.widget != nil {
		o.widget.Close()
	}

	if o.hooks != nil {
		o.hooks.Stop()
		o.hooks = nil
	}

	if o.nc != nil || o.ns != nil {
		if err := nats.Shutdown(o.nc, o.ns); err != nil {
			errs = append(errs, fmt.Errorf("NATS shutdown failed: %w", err))
		}
		o.nc = nil
		o.ns = nil
	}

	logger.Info("Orchestrator stopped")
	return errors.Join(errs...)
}
