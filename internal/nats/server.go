package nats

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an in-process NATS server with JetStream file
// storage under dataDir. No network ports are opened.
func StartEmbeddedNATS(dataDir string) (*server.Server, error) {
	logger.Debug("nats: starting embedded server in %s", dataDir)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
		NoSigs:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("nats: creating server: %v", err)
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("nats: server not ready within 4s")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("nats: server ready")
	return ns, nil
}

// ConnectInProcess opens a connection to ns without going through the network stack.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("nats: in-process connect: %v", err)
		return nil, err
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Local bundles the embedded server with its connection and JetStream context.
type Local struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
}

// Open starts the embedded server under dataDir and connects to it.
func Open(dataDir string) (*Local, error) {
	ns, err := StartEmbeddedNATS(dataDir)
	if err != nil {
		return nil, fmt.Errorf("starting local store: %w", err)
	}

	nc, err := ConnectInProcess(ns)
	if err != nil {
		_ = Shutdown(nil, ns)
		return nil, fmt.Errorf("connecting to local store: %w", err)
	}

	js, err := CreateJetStream(nc)
	if err != nil {
		_ = Shutdown(nc, ns)
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	return &Local{Server: ns, Conn: nc, JS: js}, nil
}

// Close drains the connection and stops the server.
func (l *Local) Close() error {
	if l == nil {
		return nil
	}
	return Shutdown(l.Conn, l.Server)
}

// Shutdown drains nc and stops ns, bounding each phase with a timeout so a
// wedged server never blocks process exit.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("nats: drain failed, closing: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("nats: drain timed out after 2s, closing")
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
			logger.Error("nats: server shutdown timed out after 5s")
			return errors.New("nats server shutdown timed out")
		}
	}

	logger.Debug("nats: shutdown complete")
	return nil
}
