package relay

import (
	"io"

	"github.com/gorilla/websocket"
	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io-go-parser/parser"
	_types "github.com/zishang520/engine.io-go-parser/types"

	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
)

var packetTypes = map[packet.Type]bool{
	packet.OPEN:    true,
	packet.CLOSE:   true,
	packet.PING:    true,
	packet.PONG:    true,
	packet.MESSAGE: true,
	packet.UPGRADE: true,
	packet.NOOP:    true,
}

// EngineIOCodec reads and writes engine.io v4 packets. The packet type is the
// event name and the payload, when present, is its only argument: a string
// for text frames and a []byte for binary ones.
type EngineIOCodec struct {
	parser parser.Parser
}

func NewEngineIOCodec() *EngineIOCodec {
	return &EngineIOCodec{parser: parser.Parserv4()}
}

func (*EngineIOCodec) Name() string {
	return "engine.io"
}

func (c *EngineIOCodec) Encode(event events.EventName, args ...any) (int, []byte, error) {
	name, ok := event.(string)
	if !ok || !packetTypes[packet.Type(name)] {
		return 0, nil, errors.ErrInvalidEventName
	}

	p := &packet.Packet{Type: packet.Type(name)}
	switch len(args) {
	case 0:
	case 1:
		switch v := args[0].(type) {
		case string:
			p.Data = _types.NewStringBufferString(v)
		case []byte:
			p.Data = _types.NewBytesBuffer(v)
		default:
			return 0, nil, errors.NewCodecError("engine.io payload must be a string or []byte", nil).Err()
		}
	default:
		return 0, nil, errors.NewCodecError("engine.io packets carry at most one argument", nil).Err()
	}

	data, err := c.parser.EncodePacket(p, true)
	if err != nil {
		return 0, nil, errors.NewCodecError("engine.io encode", err).Err()
	}

	messageType := websocket.BinaryMessage
	if _, ok := data.(*_types.StringBuffer); ok {
		messageType = websocket.TextMessage
	}
	return messageType, data.Bytes(), nil
}

func (c *EngineIOCodec) Decode(messageType int, data []byte) (events.EventName, []any, error) {
	var buf _types.BufferInterface
	if messageType == websocket.TextMessage {
		buf = _types.NewStringBuffer(data)
	} else {
		buf = _types.NewBytesBuffer(data)
	}

	p, err := c.parser.DecodePacket(buf)
	if err != nil {
		return nil, nil, errors.NewCodecError("engine.io decode", err).Err()
	}
	if p == nil || p.Type == packet.ERROR {
		return nil, nil, errors.NewCodecError("engine.io parser error", nil).Err()
	}

	switch v := p.Data.(type) {
	case nil:
		return string(p.Type), []any{}, nil
	case *_types.StringBuffer:
		return string(p.Type), []any{v.String()}, nil
	default:
		payload, err := io.ReadAll(v)
		if err != nil {
			return nil, nil, errors.NewCodecError("engine.io payload", err).Err()
		}
		if messageType == websocket.TextMessage {
			return string(p.Type), []any{string(payload)}, nil
		}
		return string(p.Type), []any{payload}, nil
	}
}
