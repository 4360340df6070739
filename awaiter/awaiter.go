// Package awaiter turns a one-shot success/error event pair into a single
// awaitable Outcome.
//
//	outcome, err := awaiter.AwaitEventOrError(emitter, "ready")
//	if err != nil {
//		return err // invalid emitter or event name
//	}
//	args, err := outcome.Wait(ctx)
//
// Concurrent calls for the same event name on the same emitter share one
// listener pair and settle together.
package awaiter

import (
	"reflect"
	"sync"

	"github.com/UziTech/await-event-or-error/config"
	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
)

const DefaultErrorEvent = config.DefaultErrorEvent

// registries of emitters that do not own one, dropped once idle
var (
	index_mu sync.Mutex
	index    = map[Source]*Registry{}
)

// AwaitEventOrError resolves with the arguments of the next event, or rejects
// with the payload of the next errorEvent ("error" when omitted), whichever
// fires first on emitter. Invalid arguments fail immediately.
//
// Emitters that own a registry (see Emitter) use it; any other emitter gets
// one from a shared index for as long as it has pending waiters.
func AwaitEventOrError(emitter Source, event events.EventName, errorEvent ...events.EventName) (*Outcome, error) {
	if !validEmitter(emitter) {
		return nil, errors.ErrInvalidEmitter
	}

	if owner, ok := emitter.(interface{ Waiters() *Registry }); ok {
		if r := owner.Waiters(); r != nil {
			return r.Await(event, errorEvent...)
		}
	}

	index_mu.Lock()
	defer index_mu.Unlock()

	r, ok := index[emitter]
	if !ok {
		r = newRegistry(emitter)
		r.onIdle = release
	}

	o, err := r.Await(event, errorEvent...)
	if err != nil {
		return nil, err
	}
	index[emitter] = r

	return o, nil
}

func release(r *Registry) {
	index_mu.Lock()
	defer index_mu.Unlock()

	if index[r.emitter] == r && r.Len() == 0 {
		delete(index, r.emitter)
	}
}

// validEmitter rejects nil emitters and emitters that cannot key the index.
// Value.Comparable also checks the dynamic values held in interface fields,
// which would otherwise panic when hashed.
func validEmitter(emitter Source) bool {
	if emitter == nil {
		return false
	}

	v := reflect.ValueOf(emitter)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return false
		}
	}

	if e, ok := emitter.(*Emitter); ok && e.EventEmitter == nil {
		return false
	}

	return v.Comparable()
}
