package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/nats"
	"github.com/mark3labs/bitgrid/internal/notify"
	natsgo "github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchFlags struct {
	url    string
	replay bool
}

var watchCmd = &cobra.Command{
	Use:   "watch <name>",
	Short: "Follow a grid's changes from NATS",
	Long: `Subscribe to a grid's change events and print each change as a
unified diff of the grid table.

Start the grid with 'bitgrid run --publish' or 'bitgrid serve --publish'.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFlags.url, "url", "u", natsgo.DefaultURL, "NATS server URL")
	watchCmd.Flags().BoolVar(&watchFlags.replay, "replay", true, "Start from the last stored change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	nc, err := nats.Connect(watchFlags.url, func(connected bool) {
		if connected {
			fmt.Fprintln(os.Stderr, "reconnected")
		} else {
			fmt.Fprintln(os.Stderr, "disconnected, retrying...")
		}
	})
	if err != nil {
		return err
	}
	defer nc.Close()

	printer := newChangePrinter(out)
	if watchFlags.replay {
		replayLast(cmd.Context(), nc, name, printer)
	}

	sub, err := nats.Subscribe(nc, name, printer.Print)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	fmt.Fprintf(out, "Watching %s on %s\n", nats.SubjectForGrid(name), watchFlags.url)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

// replayLast prints the last stored change. Failures are logged only: the
// publisher may not run JetStream.
func replayLast(ctx context.Context, nc *natsgo.Conn, name string, p *changePrinter) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		logger.Warn("Replay skipped: %v", err)
		return
	}
	stream, err := nats.ChangeStream(ctx, js)
	if err != nil {
		logger.Warn("Replay skipped: %v", err)
		return
	}
	ch, ok, err := nats.LastChange(ctx, stream, name)
	if err != nil {
		logger.Warn("Replay skipped: %v", err)
		return
	}
	if ok {
		p.Print(ch)
	}
}

// changePrinter prints the first change as a full table and later ones as
// diffs against the previous table.
type changePrinter struct {
	out  io.Writer
	mu   sync.Mutex
	prev string
	seen map[string]bool
}

func newChangePrinter(out io.Writer) *changePrinter {
	return &changePrinter{out: out, seen: make(map[string]bool)}
}

// Print writes one change. A change already printed (by replay) is skipped.
func (p *changePrinter) Print(ch notify.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.seen[ch.ID] {
		return
	}
	p.seen[ch.ID] = true

	next := grid.Format(ch.Data, ch.RowLabels, ch.ColLabels)
	fmt.Fprintf(p.out, "── %s  %dx%d  %d active  %s\n",
		ch.At.Local().Format(time.TimeOnly), ch.Rows, ch.Cols, ch.Active, ch.ID)

	switch {
	case p.prev == "":
		fmt.Fprint(p.out, next)
	case p.prev == next:
		fmt.Fprintln(p.out, "(no cell changes)")
	default:
		fmt.Fprint(p.out, udiff.Unified("before", "after", p.prev, next))
	}
	p.prev = next
}
