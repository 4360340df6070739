// Package events provides a thread-safe, Node-style EventEmitter.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/UziTech/await-event-or-error/types"
)

// DefaultMaxListeners is the number of max listeners per event.
// Adding more than that returns a "possible memory leak" error,
// which helps finding listeners that are never removed.
// Defaults to 0, which means unlimited.
const DefaultMaxListeners = 0

type (
	// EventName identifies an event: either a string or a *Symbol.
	EventName any

	// Listener is a func which receives the optional arguments passed to Emit.
	Listener func(...any)

	// Events the type for registered listeners, it's just a map[EventName][]func(...any)
	Events map[EventName][]Listener

	// EventEmitter is the message/or/event manager
	EventEmitter interface {
		// AddListener is an alias for .On(eventName, listener).
		AddListener(EventName, ...Listener) error
		// Emit fires a particular event,
		// Synchronously calls each of the listeners registered for the event named
		// eventName, in the order they were registered,
		// passing the supplied arguments to each.
		Emit(EventName, ...any)
		// EventNames returns the events for which the emitter has registered listeners.
		EventNames() []EventName
		// GetMaxListeners returns the max listeners for this emitter
		// see SetMaxListeners
		GetMaxListeners() uint
		// ListenerCount returns the length of all registered listeners to a particular event
		ListenerCount(EventName) int
		// Listeners returns a copy of the array of listeners for the event named eventName.
		Listeners(EventName) []Listener
		// On registers a particular listener for an event, func receiver parameter(s) is/are optional
		On(EventName, ...Listener) error
		// Once adds a one time listener function for the event named eventName.
		// The next time eventName is triggered, this listener is removed and then invoked.
		Once(EventName, ...Listener) error
		// Off is an alias for .RemoveListener(eventName, listener).
		Off(EventName, Listener) bool
		// RemoveAllListeners removes all listeners of the specified eventName.
		// Returns an indicator if event and listeners were found before the remove.
		RemoveAllListeners(EventName) bool
		// RemoveListener removes given listener from the event named eventName.
		// Returns an indicator whether listener was removed
		RemoveListener(EventName, Listener) bool
		// Clear removes all events and all listeners, restores Events to an empty value
		Clear()
		// SetMaxListeners allows the MaxListeners to be decreased or increased.
		// Set to zero for unlimited
		SetMaxListeners(uint)
		// Len returns the length of all registered events
		Len() int
	}

	listener struct {
		fn Listener
		id uintptr
	}

	eventEntry struct {
		mu        sync.RWMutex
		listeners []*listener
		// set once the entry has left evtListeners; adders must reload
		removed bool
	}

	emitter struct {
		maxListeners atomic.Uint32
		evtListeners types.Map[EventName, *eventEntry]
	}
)

// Symbol is a unique event name that can never collide with a string name
// or with another Symbol, even one with the same description.
type Symbol struct {
	description string
}

func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

func (s *Symbol) Description() string {
	return s.description
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// IsEventName reports whether name is a string or a non-nil *Symbol.
func IsEventName(name EventName) bool {
	switch n := name.(type) {
	case string:
		return true
	case *Symbol:
		return n != nil
	}
	return false
}

// listenerID identifies a listener by its closure object rather than its code
// pointer: closures created from the same literal share code but not context.
func listenerID(fn Listener) uintptr {
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&fn)))
}

// CopyTo copies the event listeners to an EventEmitter
func (e Events) CopyTo(emitter EventEmitter) {
	for evt, listeners := range e {
		if len(listeners) > 0 {
			emitter.AddListener(evt, listeners...)
		}
	}
}

// New returns a new, empty, EventEmitter
func New() EventEmitter {
	e := &emitter{}
	e.SetMaxListeners(DefaultMaxListeners)

	return e
}

func (e *emitter) SetMaxListeners(n uint) {
	e.maxListeners.Store(uint32(n))
}

func (e *emitter) GetMaxListeners() uint {
	return uint(e.maxListeners.Load())
}

func (e *emitter) addListeners(evt EventName, listeners []*listener) error {
	if len(listeners) == 0 {
		return nil
	}

	if !IsEventName(evt) {
		return fmt.Errorf("(events) invalid event name %#v: must be a string or *Symbol", evt)
	}

	for {
		evtEntry, _ := e.evtListeners.LoadOrStore(evt, &eventEntry{})

		evtEntry.mu.Lock()
		if evtEntry.removed {
			evtEntry.mu.Unlock()
			continue
		}
		err := e.appendListeners(evtEntry, listeners)
		evtEntry.mu.Unlock()

		return err
	}
}

// appendListeners must be called with evtEntry.mu held.
func (e *emitter) appendListeners(evtEntry *eventEntry, listeners []*listener) error {
	if maxListeners := e.maxListeners.Load(); maxListeners > 0 && len(evtEntry.listeners) >= int(maxListeners) {
		return fmt.Errorf("(events) warning: possible EventEmitter memory leak detected. %d listeners added. Use emitter.SetMaxListeners(n int) to increase limit.", len(evtEntry.listeners))
	}

	evtEntry.listeners = append(evtEntry.listeners, listeners...)
	return nil
}

func (e *emitter) AddListener(evt EventName, listeners ...Listener) error {
	if len(listeners) == 0 {
		return nil
	}

	events := make([]*listener, 0, len(listeners))
	for _, fn := range listeners {
		if fn != nil {
			events = append(events, &listener{fn: fn, id: listenerID(fn)})
		}
	}

	return e.addListeners(evt, events)
}

// Alias: [AddListener]
func (e *emitter) On(evt EventName, listeners ...Listener) error {
	return e.AddListener(evt, listeners...)
}

func (e *emitter) Emit(evt EventName, data ...any) {
	if !IsEventName(evt) {
		return
	}

	evtEntry, ok := e.evtListeners.Load(evt)
	if !ok {
		return
	}

	evtEntry.mu.RLock()
	if len(evtEntry.listeners) == 0 {
		evtEntry.mu.RUnlock()
		return
	}

	listeners := make([]*listener, len(evtEntry.listeners))
	copy(listeners, evtEntry.listeners)
	evtEntry.mu.RUnlock()

	for _, l := range listeners {
		l.fn(data...)
	}
}

func (e *emitter) EventNames() []EventName {
	return e.evtListeners.Keys()
}

func (e *emitter) ListenerCount(evt EventName) int {
	if !IsEventName(evt) {
		return 0
	}

	evtEntry, ok := e.evtListeners.Load(evt)
	if !ok {
		return 0
	}

	evtEntry.mu.RLock()
	defer evtEntry.mu.RUnlock()

	return len(evtEntry.listeners)
}

func (e *emitter) Listeners(evt EventName) []Listener {
	if !IsEventName(evt) {
		return nil
	}

	evtEntry, ok := e.evtListeners.Load(evt)
	if !ok {
		return nil
	}

	evtEntry.mu.RLock()
	defer evtEntry.mu.RUnlock()

	listeners := make([]Listener, len(evtEntry.listeners))
	for i, l := range evtEntry.listeners {
		listeners[i] = l.fn
	}

	return listeners
}

type oneTimeListener struct {
	fired atomic.Bool

	evt     EventName
	emitter *emitter
	entry   *listener
	fn      Listener
}

// execute detaches the listener before invoking it, so a listener that
// re-subscribes to the same event from inside fn is not removed by mistake.
func (l *oneTimeListener) execute(vals ...any) {
	if !l.fired.CompareAndSwap(false, true) {
		return
	}
	l.emitter.removeEntry(l.evt, func(entry *listener) bool { return entry == l.entry })
	l.fn(vals...)
}

func (e *emitter) Once(evt EventName, listeners ...Listener) error {
	if len(listeners) == 0 {
		return nil
	}

	events := make([]*listener, 0, len(listeners))
	for _, fn := range listeners {
		if fn == nil {
			continue
		}
		oneTime := &oneTimeListener{evt: evt, emitter: e, fn: fn}
		// Registered under the wrapped listener's id so RemoveListener(evt, fn) finds it.
		oneTime.entry = &listener{fn: oneTime.execute, id: listenerID(fn)}
		events = append(events, oneTime.entry)
	}
	return e.addListeners(evt, events)
}

// Alias: [RemoveListener]
func (e *emitter) Off(evt EventName, fn Listener) bool {
	return e.RemoveListener(evt, fn)
}

// RemoveListener removes the most recently added instance of listener from the
// listener array for the event named eventName.
func (e *emitter) RemoveListener(evt EventName, fn Listener) bool {
	if fn == nil || !IsEventName(evt) {
		return false
	}

	id := listenerID(fn)
	return e.removeEntry(evt, func(entry *listener) bool { return entry.id == id })
}

func (e *emitter) removeEntry(evt EventName, match func(*listener) bool) bool {
	evtEntry, ok := e.evtListeners.Load(evt)
	if !ok {
		return false
	}

	evtEntry.mu.Lock()
	defer evtEntry.mu.Unlock()

	for i := len(evtEntry.listeners) - 1; i >= 0; i-- {
		if match(evtEntry.listeners[i]) {
			evtEntry.listeners = append(evtEntry.listeners[:i], evtEntry.listeners[i+1:]...)
			if len(evtEntry.listeners) == 0 {
				e.dropEntry(evt, evtEntry)
			}
			return true
		}
	}
	return false
}

// dropEntry must be called with evtEntry.mu held.
func (e *emitter) dropEntry(evt EventName, evtEntry *eventEntry) {
	evtEntry.removed = true
	e.evtListeners.CompareAndDelete(evt, evtEntry)
}

func (e *emitter) RemoveAllListeners(evt EventName) bool {
	if !IsEventName(evt) {
		return false
	}
	evtEntry, ok := e.evtListeners.Load(evt)
	if !ok {
		return false
	}

	evtEntry.mu.Lock()
	defer evtEntry.mu.Unlock()

	if evtEntry.removed {
		return false
	}
	e.dropEntry(evt, evtEntry)
	return true
}

func (e *emitter) Clear() {
	e.evtListeners.Range(func(evt EventName, evtEntry *eventEntry) bool {
		evtEntry.mu.Lock()
		if !evtEntry.removed {
			e.dropEntry(evt, evtEntry)
		}
		evtEntry.mu.Unlock()
		return true
	})
}

func (e *emitter) Len() int {
	return e.evtListeners.Len()
}
