package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Frames arriving faster than this are dropped.
	pubResolution = 50 * time.Millisecond
)

var (
	pingResolution = 2 * time.Second
	// Number of lost pings tolerated before the peer is considered gone.
	pongWait = pingResolution * 4
)

// ErrPongDeadlineExceeded reports a client that stopped answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

var upgrader = websocket.Upgrader{}

// client publishes hub frames to one websocket peer.
type client struct {
	frames <-chan Frame
	ws     *websocket.Conn
	ctx    context.Context
}

func newClient(frames <-chan Frame, w http.ResponseWriter, r *http.Request) (*client, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the peer.
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	ws.SetReadLimit(maxMessageSize)
	return &client{frames: frames, ws: ws, ctx: r.Context()}, nil
}

// sync runs the reader, the pinger and the publisher until the peer goes
// away or one of them fails. It returns nil on a normal disconnect.
func (cli *client) sync() error {
	defer cli.ws.Close()

	group, ctx := errgroup.WithContext(cli.ctx)
	pong := make(chan struct{}, 1)
	cli.ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	group.Go(func() error { return cli.readMessages() })
	group.Go(func() error { return cli.pingPong(ctx, pong) })
	group.Go(func() error { return cli.publish(ctx) })

	err := group.Wait()
	if isClosure(err) {
		return nil
	}
	return err
}

// readMessages drains the peer. Read errors are permanent, so any error tears
// the client down; the read also drives the pong handler.
func (cli *client) readMessages() error {
	for {
		if _, _, err := cli.ws.ReadMessage(); err != nil {
			return err
		}
	}
}

func (cli *client) pingPong(ctx context.Context, pong <-chan struct{}) error {
	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return cli.close()
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				// Unblock readMessages; the peer will not send a close.
				_ = cli.ws.SetReadDeadline(time.Now())
				return ErrPongDeadlineExceeded
			}
			// WriteControl may run concurrently with the publisher's writes.
			if err := cli.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client) publish(ctx context.Context) error {
	var (
		lastSync time.Time
		pending  *Frame
		flush    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-cli.frames:
			if !ok {
				return cli.close()
			}
			// Hold frames that arrive too quickly; only the newest is sent.
			if wait := pubResolution - time.Since(lastSync); wait > 0 {
				pending = &f
				if flush == nil {
					flush = time.After(wait)
				}
				continue
			}
			lastSync = time.Now()
			if err := cli.write(f); err != nil {
				return err
			}
		case <-flush:
			flush = nil
			if pending == nil {
				continue
			}
			lastSync = time.Now()
			if err := cli.write(*pending); err != nil {
				return err
			}
			pending = nil
		}
	}
}

func (cli *client) write(f Frame) error {
	if err := cli.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	if err := cli.ws.WriteJSON(f); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

// close sends a normal closure to the peer and bounds the wait for its reply,
// which ends readMessages.
func (cli *client) close() error {
	_ = cli.ws.SetReadDeadline(time.Now().Add(writeWait))
	err := cli.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
