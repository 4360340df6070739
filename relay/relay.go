// Package relay feeds the frames of a websocket connection into an emitter,
// so that remote events can be awaited like local ones:
//
//	r, _ := relay.New(conn, nil)
//	r.Listen(ctx)
//	outcome, _ := r.EventOrError("ready")
//	args, err := outcome.Wait(ctx)
package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/UziTech/await-event-or-error/awaiter"
	"github.com/UziTech/await-event-or-error/config"
	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
	"github.com/UziTech/await-event-or-error/log"
)

var relay_log = log.NewLog("await:relay")

type Relay struct {
	*awaiter.Emitter

	conn  *websocket.Conn
	codec Codec
	opts  *config.RelayOptions

	mu_write  sync.Mutex
	closed    atomic.Bool
	listening atomic.Bool
	finished  chan struct{}
}

func New(conn *websocket.Conn, opts config.RelayOptionsInterface) (*Relay, error) {
	if conn == nil {
		return nil, errors.ErrInvalidEmitter
	}

	options := config.DefaultRelayOptions()
	options.Assign(opts)

	codec, err := NewCodec(options)
	if err != nil {
		return nil, err
	}

	conn.SetReadLimit(options.ReadLimit())

	return &Relay{
		Emitter:  awaiter.New(options),
		conn:     conn,
		codec:    codec,
		opts:     options,
		finished: make(chan struct{}),
	}, nil
}

func (r *Relay) Opts() config.RelayOptionsInterface {
	return r.opts
}

func (r *Relay) Codec() Codec {
	return r.codec
}

// Listen starts the read loop in its own goroutine, once. Cancel ctx to close
// the connection.
func (r *Relay) Listen(ctx context.Context) {
	if r.listening.Swap(true) {
		return
	}

	relay_log.Debug(`listening on %s (%s codec)`, r.conn.RemoteAddr(), r.codec.Name())

	go func() {
		select {
		case <-ctx.Done():
			r.Close()
		case <-r.finished:
		}
	}()

	go r.run()
}

// Done is closed after the read loop has emitted the close event.
func (r *Relay) Done() <-chan struct{} {
	return r.finished
}

func (r *Relay) run() {
	defer r.close()

	for {
		mt, data, err := r.conn.ReadMessage()
		if err != nil {
			r.onReadError(err)
			return
		}

		event, args, err := r.codec.Decode(mt, data)
		if err != nil {
			relay_log.Debug(`dropping frame: %s`, err)
			r.Emit(r.opts.ErrorEvent(), err)
			continue
		}

		relay_log.Debug(`received %v with %d argument(s)`, event, len(args))
		r.Emit(event, args...)
	}
}

func (r *Relay) onReadError(err error) {
	code, text := websocket.CloseAbnormalClosure, err.Error()

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		code, text = closeErr.Code, closeErr.Text
	} else if r.closed.Load() {
		code, text = websocket.CloseNormalClosure, ""
	}

	if !r.closed.Load() && (closeErr == nil || websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)) {
		relay_log.Debug(`read error: %s`, err)
		r.Emit(r.opts.ErrorEvent(), err)
	}

	relay_log.Debug(`closed (%d %s)`, code, text)
	r.Emit(r.opts.CloseEvent(), code, text)
}

// Send encodes an event with the relay's codec and writes it as one frame.
func (r *Relay) Send(event events.EventName, args ...any) error {
	if r.closed.Load() {
		return errors.ErrRelayClosed
	}

	mt, data, err := r.codec.Encode(event, args...)
	if err != nil {
		return err
	}

	r.mu_write.Lock()
	defer r.mu_write.Unlock()

	r.conn.SetWriteDeadline(time.Now().Add(r.opts.WriteTimeout()))
	return r.conn.WriteMessage(mt, data)
}

// Close sends a normal close frame and closes the connection. The read loop
// then emits the close event.
func (r *Relay) Close() error {
	if r.closed.Swap(true) {
		return nil
	}

	// WriteControl may run concurrently with Send.
	r.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(r.opts.WriteTimeout()),
	)

	return r.conn.Close()
}

func (r *Relay) close() {
	if !r.closed.Swap(true) {
		r.conn.Close()
	}
	close(r.finished)
}
