package nats

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// InProcessPort runs the embedded server without a network listener.
const InProcessPort = -1

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled.
// A negative port keeps it in-process only, zero picks a random port and a
// positive port listens on 127.0.0.1. storeDir holds JetStream state; empty
// uses the server's temp directory.
func StartEmbeddedNATS(port int, storeDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server (port %d)", port)

	opts := &server.Options{
		JetStream: true,
		StoreDir:  storeDir,
		NoSigs:    true,
	}
	switch {
	case port < 0:
		opts.DontListen = true
	case port == 0:
		opts.Host = "127.0.0.1"
		opts.Port = server.RANDOM_PORT
	default:
		opts.Host = "127.0.0.1"
		opts.Port = port
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("bitgrid"))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}
	return conn, nil
}

// Connect dials a NATS server by URL. The connection keeps reconnecting
// forever and reports state changes to onStatus, which may be nil.
func Connect(url string, onStatus func(connected bool)) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("bitgrid"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	if onStatus != nil {
		opts = append(opts,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("NATS disconnected: %v", err)
				onStatus(false)
			}),
			nats.ReconnectHandler(func(*nats.Conn) {
				logger.Info("NATS reconnected")
				onStatus(true)
			}),
		)
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection, then shuts the server down. Either may be nil.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("NATS server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
