package config

import (
	"github.com/UziTech/await-event-or-error/events"
)

const DefaultErrorEvent = "error"

type AwaitOptionsInterface interface {
	SetErrorEvent(events.EventName)
	GetRawErrorEvent() events.EventName
	ErrorEvent() events.EventName
}

type AwaitOptions struct {
	// event whose first argument rejects every waiter of a cycle
	errorEvent events.EventName
}

func DefaultAwaitOptions() *AwaitOptions {
	return &AwaitOptions{}
}

func (a *AwaitOptions) Assign(data AwaitOptionsInterface) AwaitOptionsInterface {
	if data == nil {
		return a
	}

	if a.GetRawErrorEvent() == nil {
		a.SetErrorEvent(data.ErrorEvent())
	}

	return a
}

// event whose first argument rejects every waiter of a cycle
// @default "error"
func (a *AwaitOptions) SetErrorEvent(errorEvent events.EventName) {
	a.errorEvent = errorEvent
}
func (a *AwaitOptions) GetRawErrorEvent() events.EventName {
	return a.errorEvent
}
func (a *AwaitOptions) ErrorEvent() events.EventName {
	if a.errorEvent == nil {
		return DefaultErrorEvent
	}

	return a.errorEvent
}
