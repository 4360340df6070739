package awaiter

import (
	"context"
	"fmt"
	"sync"
)

// RejectionError carries an error event payload that is not itself an error.
type RejectionError struct {
	Value any
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected with %v", e.Value)
}

// Outcome is the pending result of one AwaitEventOrError call. It settles
// exactly once: resolved with the success event's arguments, or rejected with
// the error event's payload.
type Outcome struct {
	done chan struct{}
	once sync.Once

	args   []any
	reason any
	err    error
}

func newOutcome() *Outcome {
	return &Outcome{done: make(chan struct{})}
}

func (o *Outcome) resolve(args []any) {
	o.once.Do(func() {
		o.args = args
		close(o.done)
	})
}

func (o *Outcome) reject(reason any) {
	o.once.Do(func() {
		o.reason = reason
		if err, ok := reason.(error); ok {
			o.err = err
		} else {
			o.err = &RejectionError{Value: reason}
		}
		close(o.done)
	})
}

// Done is closed once the outcome settles.
func (o *Outcome) Done() <-chan struct{} {
	return o.done
}

func (o *Outcome) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the outcome settles or ctx is done. Giving up on ctx does
// not withdraw the waiter: a later Wait still observes the settlement.
func (o *Outcome) Wait(ctx context.Context) ([]any, error) {
	select {
	case <-o.done:
		return o.args, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Outcome) Await() ([]any, error) {
	return o.Wait(context.Background())
}

// Reason returns the verbatim rejection value, or nil while pending or resolved.
func (o *Outcome) Reason() any {
	if !o.Settled() {
		return nil
	}
	return o.reason
}
