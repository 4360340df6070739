package relay

import (
	"fmt"

	"github.com/UziTech/await-event-or-error/config"
	"github.com/UziTech/await-event-or-error/events"
)

// Codec maps websocket frames to events and back.
type Codec interface {
	Name() string
	// Encode returns the websocket message type and payload for an event.
	Encode(events.EventName, ...any) (int, []byte, error)
	// Decode returns the event name and arguments carried by a frame.
	Decode(int, []byte) (events.EventName, []any, error)
}

func NewCodec(opts config.RelayOptionsInterface) (Codec, error) {
	switch name := opts.Codec(); name {
	case config.CodecMsgpack:
		return NewMsgpackCodec(opts.CompressThreshold(), opts.ReadLimit()), nil
	case config.CodecEngineIO:
		return NewEngineIOCodec(), nil
	default:
		return nil, fmt.Errorf("relay: unknown codec %q", name)
	}
}
