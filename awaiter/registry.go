package awaiter

import (
	"sync"

	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
	"github.com/UziTech/await-event-or-error/log"
)

var registry_log = log.NewLog("await:registry")

// Source is the emitter capability the awaiter relies on.
type Source interface {
	Once(events.EventName, ...events.Listener) error
	RemoveListener(events.EventName, events.Listener) bool
	Emit(events.EventName, ...any)
}

// cycle is one round of waiting on an event name: a single attached
// success/error listener pair shared by every queued waiter.
type cycle struct {
	event      events.EventName
	errorEvent events.EventName

	onSuccess events.Listener
	onError   events.Listener

	waiters []*Outcome
}

// Registry tracks the pending waiters of one emitter, keyed by success event name.
type Registry struct {
	emitter Source

	mu      sync.Mutex
	pending map[events.EventName]*cycle

	// called outside mu whenever the last pending cycle settles
	onIdle func(*Registry)
}

func NewRegistry(emitter Source) (*Registry, error) {
	if !validEmitter(emitter) {
		return nil, errors.ErrInvalidEmitter
	}
	return newRegistry(emitter), nil
}

func newRegistry(emitter Source) *Registry {
	return &Registry{
		emitter: emitter,
		pending: map[events.EventName]*cycle{},
	}
}

func (r *Registry) Emitter() Source {
	return r.emitter
}

// Await queues a waiter for event. The first waiter of a cycle attaches the
// listener pair; later waiters only join the queue and share its error event.
func (r *Registry) Await(event events.EventName, errorEvent ...events.EventName) (*Outcome, error) {
	if !events.IsEventName(event) {
		return nil, errors.ErrInvalidEventName
	}

	var errEvent events.EventName = DefaultErrorEvent
	if len(errorEvent) > 0 {
		if !events.IsEventName(errorEvent[0]) {
			return nil, errors.ErrInvalidEventName
		}
		errEvent = errorEvent[0]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.pending[event]
	if !ok {
		c = &cycle{event: event, errorEvent: errEvent}
		c.onSuccess = func(args ...any) {
			r.settle(c, true, args)
		}
		c.onError = func(args ...any) {
			r.settle(c, false, args)
		}

		if err := r.emitter.Once(event, c.onSuccess); err != nil {
			return nil, err
		}
		if err := r.emitter.Once(errEvent, c.onError); err != nil {
			r.emitter.RemoveListener(event, c.onSuccess)
			return nil, err
		}

		r.pending[event] = c
		registry_log.Debug(`attached listeners for %v (error event %v)`, event, errEvent)
	} else if c.errorEvent != errEvent {
		registry_log.Debug(`%v already waits with error event %v, ignoring %v`, event, c.errorEvent, errEvent)
	}

	o := newOutcome()
	c.waiters = append(c.waiters, o)

	return o, nil
}

// settle runs inside whichever listener of the pair fires first; the other
// finds the cycle gone and returns.
func (r *Registry) settle(c *cycle, success bool, args []any) {
	r.mu.Lock()
	if r.pending[c.event] != c {
		r.mu.Unlock()
		return
	}
	delete(r.pending, c.event)
	waiters := c.waiters
	c.waiters = nil
	idle := len(r.pending) == 0
	r.mu.Unlock()

	if success {
		r.emitter.RemoveListener(c.errorEvent, c.onError)

		registry_log.Debug(`%v fired, resolving %d waiter(s)`, c.event, len(waiters))
		for _, o := range waiters {
			values := make([]any, len(args))
			copy(values, args)
			o.resolve(values)
		}
	} else {
		r.emitter.RemoveListener(c.event, c.onSuccess)

		var reason any
		if len(args) > 0 {
			reason = args[0]
		}
		registry_log.Debug(`%v fired, rejecting %d waiter(s) for %v`, c.errorEvent, len(waiters), c.event)
		for _, o := range waiters {
			o.reject(reason)
		}
	}

	if idle && r.onIdle != nil {
		r.onIdle(r)
	}
}

// Pending returns how many waiters are queued for event.
func (r *Registry) Pending(event events.EventName) int {
	if !events.IsEventName(event) {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.pending[event]; ok {
		return len(c.waiters)
	}
	return 0
}

// Len returns the number of event names with pending waiters.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}
