package events

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultDialTimeout bounds how long DialSocketIO waits for the handshake.
const DefaultDialTimeout = 15 * time.Second

// SocketIOConfig describes the server progress events are sent to.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIOPublisher emits every event to a socket.io server, using the
// event type as the socket.io event name.
type SocketIOPublisher struct {
	client *socket.Socket
}

// DialSocketIO connects to the server and waits for the connection to be
// confirmed before returning.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIOPublisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", cfg.URL)
	logger.Info("Connecting event publisher...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("events URL '%s' must include a scheme and host", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Event publisher connected", "sid", io.Id())
		notify(connectChan, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) == 0 {
			notify(connectChan, errors.New("connect_error without details"))
			return
		}
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("%v", errs[0])
		}
		notify(connectChan, err)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOPublisher{client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// notify delivers the first connection outcome and drops any later one.
func notify(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// Publish implements Publisher.
func (p *SocketIOPublisher) Publish(_ context.Context, e Event) error {
	if !p.client.Connected() {
		return errors.New("socket.io publisher is not connected")
	}
	p.client.Emit(string(e.Type), e.Payload())
	return nil
}

// Close disconnects from the server.
func (p *SocketIOPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
