package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/notify"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName = "bitgrid_changes"

	// SubjectAll matches change events of every grid.
	SubjectAll = "bitgrid.>"
)

// GridToken returns the subject token for a grid name.
// Example: "My Grid" -> "my-grid". Unnamed grids map to "grid".
func GridToken(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "grid"
}

// SubjectForGrid returns the change subject for a grid.
// Example: "bitgrid.my-grid.change"
func SubjectForGrid(name string) string {
	return fmt.Sprintf("bitgrid.%s.change", GridToken(name))
}

// SetupStream creates or updates the in-memory stream that keeps recent
// changes for every grid, so late watchers can start from the last state.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:              streamName,
		Subjects:          []string{SubjectAll},
		Storage:           jetstream.MemoryStorage,
		MaxAge:            24 * time.Hour,
		MaxMsgsPerSubject: 100,
	})
}

// ChangeStream looks up the stream created by SetupStream.
func ChangeStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.Stream(ctx, streamName)
}

// Publisher publishes widget changes to NATS.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher creates a publisher on nc.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// Publish encodes the change and publishes it on the grid's subject.
func (p *Publisher) Publish(ch notify.Change) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encoding change: %w", err)
	}
	if err := p.nc.Publish(SubjectForGrid(ch.Name), data); err != nil {
		return fmt.Errorf("publishing change: %w", err)
	}
	return nil
}

// Listener returns a change listener that publishes every change and logs
// failures.
func (p *Publisher) Listener() notify.Listener {
	return func(ch notify.Change) {
		if err := p.Publish(ch); err != nil {
			logger.Warn("Change %s not published: %v", ch.ID, err)
		}
	}
}

// Subscribe delivers changes of the named grid to fn. Undecodable messages
// are logged and skipped.
func Subscribe(nc *nats.Conn, name string, fn notify.Listener) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(SubjectForGrid(name), func(msg *nats.Msg) {
		ch, err := decodeChange(msg.Data)
		if err != nil {
			logger.Warn("Skipping malformed change on %s: %v", msg.Subject, err)
			return
		}
		fn(ch)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", SubjectForGrid(name), err)
	}
	return sub, nil
}

// LastChange returns the most recent change stored for the named grid.
// ok is false when the stream holds none.
func LastChange(ctx context.Context, stream jetstream.Stream, name string) (ch notify.Change, ok bool, err error) {
	msg, err := stream.GetLastMsgForSubject(ctx, SubjectForGrid(name))
	if errors.Is(err, jetstream.ErrMsgNotFound) {
		return notify.Change{}, false, nil
	}
	if err != nil {
		return notify.Change{}, false, fmt.Errorf("reading last change: %w", err)
	}
	ch, err = decodeChange(msg.Data)
	if err != nil {
		return notify.Change{}, false, err
	}
	return ch, true, nil
}

func decodeChange(data []byte) (notify.Change, error) {
	var ch notify.Change
	if err := json.Unmarshal(data, &ch); err != nil {
		return notify.Change{}, fmt.Errorf("decoding change: %w", err)
	}
	return ch, nil
}
