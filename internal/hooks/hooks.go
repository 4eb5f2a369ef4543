// Package hooks runs user shell commands when the grid changes.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/notify"
)

// queueSize bounds the changes waiting for hooks. Later changes are dropped
// while the queue is full.
const queueSize = 16

// Execute runs a hook command with the change encoded as JSON on stdin and
// returns its output. Placeholders in the command ({{name}}, {{id}},
// {{rows}}, {{cols}}, {{active}}) are expanded before execution.
// A failing or timed out command is reported in the output with a nil
// error; only context cancellation returns an error.
func Execute(ctx context.Context, hook HookConfig, workDir string, ch notify.Change) (string, error) {
	if hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, ch)
	logger.Debug("Executing hook command: %s", command)

	payload, err := json.Marshal(ch)
	if err != nil {
		return "", fmt.Errorf("encoding change: %w", err)
	}

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Stdin = bytes.NewReader(payload)
	// Children of sh may hold the output pipes after the kill.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}
	return output, nil
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, ch notify.Change) string {
	return strings.NewReplacer(
		"{{name}}", ch.Name,
		"{{id}}", ch.ID,
		"{{rows}}", strconv.Itoa(ch.Rows),
		"{{cols}}", strconv.Itoa(ch.Cols),
		"{{active}}", strconv.Itoa(ch.Active),
	).Replace(command)
}

// Runner executes the on-change hooks in order on a background goroutine,
// so slow commands never block the widget.
type Runner struct {
	hooks   []HookConfig
	workDir string
	queue   chan notify.Change

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner creates a runner for hooks executed in workDir.
func NewRunner(hooks []HookConfig, workDir string) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		hooks:   hooks,
		workDir: workDir,
		queue:   make(chan notify.Change, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker.
func (r *Runner) Start() {
	if r.started {
		return
	}
	r.started = true
	r.wg.Add(1)
	go r.loop()
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case ch := <-r.queue:
			r.run(ch)
		}
	}
}

func (r *Runner) run(ch notify.Change) {
	for i, hook := range r.hooks {
		out, err := Execute(r.ctx, hook, r.workDir, ch)
		if err != nil {
			return
		}
		if out != "" {
			logger.Debug("Hook %d output for change %s: %s", i, ch.ID, strings.TrimSpace(out))
		}
	}
}

// Listener returns a change listener that queues a copy of each change for
// the hooks, so they see the grid as it was when it changed.
func (r *Runner) Listener() notify.Listener {
	return func(ch notify.Change) {
		ch = ch.Clone()
		select {
		case <-r.ctx.Done():
		case r.queue <- ch:
		default:
			logger.Warn("Hook queue full, skipping change %s", ch.ID)
		}
	}
}

// Stop cancels running hooks and waits for the worker to exit.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
