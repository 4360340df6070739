package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

var _event = New()

var testEvents = Events{
	"user_created": []Listener{
		func(payload ...any) {
			fmt.Printf("A new User just created!\n")
		},
		func(payload ...any) {
			fmt.Printf("A new User just created, *from second event listener\n")
		},
	},
	"user_joined": []Listener{func(payload ...any) {
		user := payload[0].(string)
		room := payload[1].(string)
		fmt.Printf("%s joined to room: %s\n", user, room)
	}},
}

func ExampleEvents() {
	e := New()
	testEvents.CopyTo(e)

	e.Emit("user_created", "user1")
	e.Emit("user_joined", "user1", "room1")

	// Output:
	// A new User just created!
	// A new User just created, *from second event listener
	// user1 joined to room: room1
}

func TestEvents(t *testing.T) {
	e := New()
	expectedPayload := "this is my payload"

	e.On("my_event", func(payload ...any) {
		if len(payload) <= 0 {
			t.Fatal("Expected payload but got nothing")
		}

		if s, ok := payload[0].(string); !ok {
			t.Fatalf("Payload is not the correct type, got: %#v", payload[0])
		} else if s != expectedPayload {
			t.Fatalf("Expected %s, got: %s", expectedPayload, s)
		}
	})

	e.Emit("my_event", expectedPayload)
	if e.Len() != 1 {
		t.Fatalf("Length of the events is: %d, while expecting: %d", e.Len(), 1)
	}

	if l := e.ListenerCount("my_event"); l != 1 {
		t.Fatalf("Length of the listeners is: %d, while expecting: %d", l, 1)
	}

	e.RemoveAllListeners("my_event")
	if e.Len() != 0 {
		t.Fatalf("Length of the events is: %d, while expecting: %d", e.Len(), 0)
	}

	if l := e.ListenerCount("my_event"); l != 0 {
		t.Fatalf("Length of the listeners is: %d, while expecting: %d", l, 0)
	}
}

func TestEventsOnce(t *testing.T) {
	_event.Clear()

	var count = 0
	_event.Once("my_event", func(payload ...any) {
		if count > 0 {
			t.Fatalf("Once's listener fired more than one time! count: %d", count)
		}
		if l := len(payload); l != 2 {
			t.Fatalf("Once's listener payload should be: %d but has: %d", 2, l)
		}
		count++
	})
	if l := _event.ListenerCount("my_event"); l != 1 {
		t.Fatalf("Real event's listeners should be: %d but has: %d", 1, l)
	}

	if l := len(_event.Listeners("my_event")); l != 1 {
		t.Fatalf("Real event's listeners (from Listeners) should be: %d but has: %d", 1, l)
	}

	for i := 0; i < 10; i++ {
		_event.Emit("my_event", "foo", "foo1")
	}

	if l := _event.ListenerCount("my_event"); l > 0 {
		t.Fatalf("Real event's listeners length count should be: %d but has: %d", 0, l)
	}

	if l := len(_event.Listeners("my_event")); l > 0 {
		t.Fatalf("Real event's listeners length count (from Listeners) should be: %d but has: %d", 0, l)
	}

	if count != 1 {
		t.Fatalf("Once's listener should fire exactly once, fired: %d", count)
	}
}

func TestOnceResubscribe(t *testing.T) {
	e := New()

	var fired atomic.Int32
	var listener Listener
	listener = func(...any) {
		if fired.Add(1) == 1 {
			e.Once("again", listener)
		}
	}
	e.Once("again", listener)

	e.Emit("again")
	if l := e.ListenerCount("again"); l != 1 {
		t.Fatalf("Re-subscribed listener should survive its own removal, count: %d", l)
	}

	e.Emit("again")
	if n := fired.Load(); n != 2 {
		t.Fatalf("Listener should have fired %d times, fired: %d", 2, n)
	}
}

func TestRemoveListener(t *testing.T) {
	e := New()

	var count = 0
	listener := func(payload ...any) {
		if count > 1 {
			t.Fatal("Event listener should be removed")
		}

		count++
	}

	once := func(payload ...any) {}

	e.Once("once_event", once)
	e.AddListener("my_event", listener)
	e.AddListener("my_event", func(payload ...any) {})
	e.AddListener("another_event", func(payload ...any) {})

	e.Emit("my_event")

	if e.RemoveListener("once_event", once) != true {
		t.Fatal("Should return 'true' when removes found once listener")
	}

	if e.ListenerCount("once_event") != 0 {
		t.Fatal("Length of 'once_event' event listeners must be 0")
	}

	if e.Off("my_event", listener) != true {
		t.Fatal("Should return 'true' when removes found listener")
	}

	if e.RemoveListener("foo_bar", listener) != false {
		t.Fatal("Should return 'false' when removes nothing")
	}

	// once_event lost its last listener and is gone.
	if e.Len() != 2 {
		t.Fatal("Length of all events must be 2")
	}

	if e.ListenerCount("my_event") != 1 {
		t.Fatal("Length of 'my_event' event listeners must be 1")
	}

	e.Emit("my_event")
}

func TestEmptyEventsAreDropped(t *testing.T) {
	e := New()

	for i := 0; i < 100; i++ {
		name := NewSymbol("cycle")
		fn := func(...any) {}
		e.Once(name, fn)
		if i%2 == 0 {
			e.Emit(name)
		} else {
			e.RemoveListener(name, fn)
		}
	}

	if n := e.Len(); n != 0 {
		t.Fatalf("Len() = %d, want match for %d", n, 0)
	}
	if names := e.EventNames(); len(names) != 0 {
		t.Fatalf("EventNames() = %v, want match for []", names)
	}

	// A dropped event accepts listeners again.
	var fired atomic.Int32
	e.On("again", func(...any) { fired.Add(1) })
	e.RemoveAllListeners("again")
	e.On("again", func(...any) { fired.Add(1) })
	e.Emit("again")
	if n := fired.Load(); n != 1 {
		t.Fatalf("Listener should have fired %d times, fired: %d", 1, n)
	}
}

func TestConcurrentAddRemove(t *testing.T) {
	e := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn := func(...any) {}
			e.On("churn", fn)
			e.RemoveListener("churn", fn)
		}()
	}
	wg.Wait()

	kept := func(...any) {}
	e.On("churn", kept)
	if l := e.ListenerCount("churn"); l != 1 {
		t.Fatalf("ListenerCount() = %d, want match for %d", l, 1)
	}
}

func TestRemoveListenerClosureInstances(t *testing.T) {
	e := New()

	hits := map[int]int{}
	makeListener := func(i int) Listener {
		return func(...any) { hits[i]++ }
	}

	first, second := makeListener(1), makeListener(2)
	e.On("error", first)
	e.On("error", second)

	// Both closures share code; only the first one must go.
	if !e.RemoveListener("error", first) {
		t.Fatal("Should remove the first closure instance")
	}

	e.Emit("error")
	if hits[1] != 0 || hits[2] != 1 {
		t.Fatalf("Wrong listener removed, hits: %v", hits)
	}
}

func TestSymbol(t *testing.T) {
	e := New()

	a, b := NewSymbol("ready"), NewSymbol("ready")
	var got []string
	e.On(a, func(...any) { got = append(got, "a") })
	e.On(b, func(...any) { got = append(got, "b") })
	e.On("ready", func(...any) { got = append(got, "string") })

	e.Emit(a)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("Symbols with the same description must not collide, got: %v", got)
	}

	if s := a.String(); s != "Symbol(ready)" {
		t.Fatalf("Symbol.String() = %q, want match for %q", s, "Symbol(ready)")
	}
}

func TestInvalidEventName(t *testing.T) {
	e := New()

	if err := e.On(42, func(...any) {}); err == nil {
		t.Fatal("Should reject a non-string, non-symbol event name")
	}

	var nilSymbol *Symbol
	if err := e.Once(nilSymbol, func(...any) {}); err == nil {
		t.Fatal("Should reject a nil *Symbol event name")
	}

	// Emitting an invalid name is a no-op.
	e.Emit([]string{"not", "comparable"})
}

func TestMaxListeners(t *testing.T) {
	e := New()
	e.SetMaxListeners(1)

	if err := e.On("limited", func(...any) {}); err != nil {
		t.Fatalf("First listener should be accepted, got: %v", err)
	}
	if err := e.On("limited", func(...any) {}); err == nil {
		t.Fatal("Second listener should report a possible leak")
	}
	if n := e.GetMaxListeners(); n != 1 {
		t.Fatalf("GetMaxListeners() = %d, want match for %d", n, 1)
	}
}

func TestConcurrentEmit(t *testing.T) {
	e := New()

	var total atomic.Int64
	for i := 0; i < 10; i++ {
		e.On("event", func(payload ...any) {
			total.Add(int64(payload[0].(int)))
		})
	}

	var wg sync.WaitGroup
	for j := 1; j <= 10; j++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			e.Emit("event", j)
		}(j)
	}
	wg.Wait()

	// 10 listeners * (1 + 2 + ... + 10)
	if n := total.Load(); n != 550 {
		t.Fatalf("Expected total %d, got %d", 550, n)
	}
}
