package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bitgrid/internal/config"
	"github.com/mark3labs/bitgrid/internal/hooks"
	"github.com/mark3labs/bitgrid/internal/nats"
	"github.com/mark3labs/bitgrid/internal/notify"
	"github.com/mark3labs/bitgrid/internal/tui"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/stretchr/testify/require"
)

func headlessConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Grid: config.Config{
			Name:       "skills",
			Rows:       3,
			Cols:       3,
			DebounceMs: -1,
			NATS:       config.NATSConfig{Enabled: true, Port: nats.InProcessPort},
		},
		Headless:     true,
		NATSStoreDir: t.TempDir(),
	}
}

func startOrchestrator(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	orch, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, orch.Start())
	t.Cleanup(func() { _ = orch.Stop() })
	return orch
}

// TestGracefulShutdown verifies that Stop() tears every component down in time.
func TestGracefulShutdown(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Grid.MCP.Enabled = true

	orch, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, orch.Start())
	require.NotEmpty(t, orch.MCPURL())

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- orch.Stop()
	}()

	select {
	case err := <-stopDone:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Stop() timed out - graceful shutdown failed")
	}

	require.ErrorIs(t, orch.ctx.Err(), context.Canceled)
	require.Nil(t, orch.nc)
	require.Nil(t, orch.ns)
}

func TestShutdownIdempotency(t *testing.T) {
	orch, err := New(headlessConfig(t))
	require.NoError(t, err)
	require.NoError(t, orch.Start())

	require.NoError(t, orch.Stop())
	require.NoError(t, orch.Stop())
	require.NoError(t, orch.Stop())
}

func TestWaitReturnsAfterStop(t *testing.T) {
	orch := startOrchestrator(t, headlessConfig(t))

	waited := make(chan struct{})
	go func() {
		orch.Wait()
		close(waited)
	}()

	require.NoError(t, orch.Stop())
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait() did not return after Stop()")
	}
}

func TestNew_PublishRequiresName(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Grid.Name = ""

	_, err := New(cfg)
	require.Error(t, err)
}

func TestExec_BeforeStart(t *testing.T) {
	orch, err := New(headlessConfig(t))
	require.NoError(t, err)

	require.Error(t, orch.Exec(context.Background(), func(*widget.Widget) {}))
}

func TestHeadless_PublishesChanges(t *testing.T) {
	orch := startOrchestrator(t, headlessConfig(t))

	got := make(chan notify.Change, 4)
	sub, err := nats.Subscribe(orch.nc, "skills", func(ch notify.Change) { got <- ch })
	require.NoError(t, err)
	defer func() { _ = sub.Unsubscribe() }()
	require.NoError(t, orch.nc.Flush())

	ctx := context.Background()
	require.NoError(t, orch.Exec(ctx, func(w *widget.Widget) {
		w.ToggleCell(1, 2, false)
	}))

	select {
	case ch := <-got:
		require.Equal(t, "skills", ch.Name)
		require.Equal(t, 1, ch.Active)
		require.True(t, ch.Data[1][2])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published change")
	}
}

func TestHeadless_SubscribeExtraListener(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Grid.NATS.Enabled = false
	orch := startOrchestrator(t, cfg)

	var changes []notify.Change
	ctx := context.Background()
	unsubscribe, err := orch.Subscribe(ctx, func(ch notify.Change) { changes = append(changes, ch) })
	require.NoError(t, err)

	require.NoError(t, orch.Exec(ctx, func(w *widget.Widget) { w.Fill(true, false) }))
	require.NoError(t, orch.Exec(ctx, func(w *widget.Widget) { unsubscribe() }))
	require.NoError(t, orch.Exec(ctx, func(w *widget.Widget) { w.Fill(false, false) }))

	require.Len(t, changes, 1)
	require.Equal(t, 9, changes[0].Active)
	require.Empty(t, orch.NATSURL())
}

func TestHeadless_OnChangeHooks(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "changes.log")

	cfg := headlessConfig(t)
	cfg.Grid.Hooks.OnChange = []hooks.HookConfig{
		{Command: "echo {{name}} {{active}} >> " + out, Timeout: 5},
	}
	orch := startOrchestrator(t, cfg)
	require.NotNil(t, orch.publisher, "hooks run alongside publishing")

	require.NoError(t, orch.Exec(context.Background(), func(w *widget.Widget) { w.Fill(true, false) }))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "skills 9\n"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFanOut(t *testing.T) {
	require.Nil(t, fanOut(nil))

	var calls []string
	fn := fanOut([]notify.Listener{
		func(notify.Change) { calls = append(calls, "a") },
		func(notify.Change) { calls = append(calls, "b") },
	})
	fn(notify.Change{})
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestHeadless_ConfigReload(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Chdir(tmpDir)

	path := filepath.Join(tmpDir, "grid.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: skills\nrows: 3\ncols: 3\n"), 0o644))

	cfg := headlessConfig(t)
	cfg.Grid.NATS.Enabled = false
	cfg.Grid.WatchConfig = true
	cfg.ConfigPath = path
	orch := startOrchestrator(t, cfg)
	require.NotNil(t, orch.watcher)

	require.NoError(t, os.WriteFile(path, []byte("name: skills\ncol_labels: [Go, Zig]\nrows: 4\n"), 0o644))

	require.Eventually(t, func() bool {
		var rows, cols int
		err := orch.Exec(context.Background(), func(w *widget.Widget) {
			rows, cols = w.Rows(), w.Cols()
		})
		return err == nil && rows == 4 && cols == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestHeadless_WatchWithoutFiles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Chdir(tmpDir)

	cfg := headlessConfig(t)
	cfg.Grid.WatchConfig = true
	orch := startOrchestrator(t, cfg)

	require.Nil(t, orch.watcher, "watching is skipped when no config file exists")
}

func TestTUI_ExecThroughProgram(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Headless = false
	cfg.ProgramOptions = []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	}
	orch := startOrchestrator(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var active int
	require.NoError(t, orch.Exec(ctx, func(w *widget.Widget) {
		w.Fill(true, true)
		active = w.Count()
	}))
	require.Equal(t, 9, active)

	require.NoError(t, orch.Stop())
	require.ErrorIs(t, orch.Exec(ctx, func(*widget.Widget) {}), tui.ErrExecutorClosed)
}
