package awaiter

import (
	"github.com/UziTech/await-event-or-error/config"
	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
)

// Emitter is an EventEmitter that owns its waiter registry, so EventOrError
// and AwaitEventOrError called on it share the same cycles.
type Emitter struct {
	events.EventEmitter

	registry *Registry
	opts     *config.AwaitOptions
}

func New(opts config.AwaitOptionsInterface) *Emitter {
	return Wrap(events.New(), opts)
}

// Wrap binds a registry to an existing emitter. If emitter already owns one
// (another Emitter), that registry is shared. Otherwise waiters must go
// through the returned Emitter: awaiting on the inner emitter directly starts
// cycles of its own, with a second listener pair per event name.
func Wrap(emitter events.EventEmitter, opts config.AwaitOptionsInterface) *Emitter {
	if emitter == nil {
		emitter = events.New()
	}

	options := config.DefaultAwaitOptions()
	options.Assign(opts)

	registry := newRegistry(emitter)
	if owner, ok := emitter.(interface{ Waiters() *Registry }); ok && validEmitter(emitter) {
		if r := owner.Waiters(); r != nil {
			registry = r
		}
	}

	return &Emitter{
		EventEmitter: emitter,
		registry:     registry,
		opts:         options,
	}
}

func (e *Emitter) Waiters() *Registry {
	return e.registry
}

func (e *Emitter) Opts() config.AwaitOptionsInterface {
	if e.opts == nil {
		return config.DefaultAwaitOptions()
	}
	return e.opts
}

// EventOrError is AwaitEventOrError bound to e. The error event defaults to
// the one configured in e's options.
func (e *Emitter) EventOrError(event events.EventName, errorEvent ...events.EventName) (*Outcome, error) {
	if !validEmitter(e) {
		return nil, errors.ErrInvalidEmitter
	}
	if len(errorEvent) == 0 && e.opts != nil {
		errorEvent = []events.EventName{e.opts.ErrorEvent()}
	}
	return AwaitEventOrError(e, event, errorEvent...)
}
