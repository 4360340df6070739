package relay

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/UziTech/await-event-or-error/errors"
	"github.com/UziTech/await-event-or-error/events"
)

// First byte of every msgpack frame.
const (
	frameRaw    byte = 0x00
	frameBrotli byte = 0x01
)

// MsgpackCodec carries an event as a binary msgpack array [name, args...].
// Symbols are local to a process, so only string names can be encoded.
type MsgpackCodec struct {
	compressThreshold int
	readLimit         int64
}

// NewMsgpackCodec brotli-compresses payloads of at least compressThreshold
// bytes; a negative threshold disables compression. Decompressed payloads
// larger than readLimit bytes are rejected; zero or less means no limit.
func NewMsgpackCodec(compressThreshold int, readLimit int64) *MsgpackCodec {
	return &MsgpackCodec{compressThreshold: compressThreshold, readLimit: readLimit}
}

func (*MsgpackCodec) Name() string {
	return "msgpack"
}

func (c *MsgpackCodec) Encode(event events.EventName, args ...any) (int, []byte, error) {
	name, ok := event.(string)
	if !ok {
		return 0, nil, errors.ErrInvalidEventName
	}

	payload, err := msgpack.Marshal(append([]any{name}, args...))
	if err != nil {
		return 0, nil, errors.NewCodecError("msgpack encode", err).Err()
	}

	buf := new(bytes.Buffer)
	if c.compressThreshold < 0 || len(payload) < c.compressThreshold {
		buf.Grow(len(payload) + 1)
		buf.WriteByte(frameRaw)
		buf.Write(payload)
		return websocket.BinaryMessage, buf.Bytes(), nil
	}

	buf.WriteByte(frameBrotli)
	br := brotli.NewWriterLevel(buf, 1)
	if _, err := br.Write(payload); err != nil {
		return 0, nil, errors.NewCodecError("brotli compress", err).Err()
	}
	if err := br.Close(); err != nil {
		return 0, nil, errors.NewCodecError("brotli compress", err).Err()
	}
	return websocket.BinaryMessage, buf.Bytes(), nil
}

func (c *MsgpackCodec) Decode(messageType int, data []byte) (events.EventName, []any, error) {
	if messageType != websocket.BinaryMessage {
		return nil, nil, errors.NewCodecError("msgpack frames must be binary", nil).Err()
	}
	if len(data) == 0 {
		return nil, nil, errors.NewCodecError("empty frame", nil).Err()
	}

	var payload []byte
	switch data[0] {
	case frameRaw:
		payload = data[1:]
	case frameBrotli:
		var err error
		if payload, err = c.decompress(data[1:]); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errors.NewCodecError("unknown frame flag", nil).Err()
	}

	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.UseLooseInterfaceDecoding(true)

	var frame []any
	if err := dec.Decode(&frame); err != nil {
		return nil, nil, errors.NewCodecError("msgpack decode", err).Err()
	}
	if len(frame) == 0 {
		return nil, nil, errors.NewCodecError("frame has no event name", nil).Err()
	}

	name, ok := frame[0].(string)
	if !ok {
		return nil, nil, errors.NewCodecError("event name must be a string", nil).Err()
	}

	return name, frame[1:], nil
}

func (c *MsgpackCodec) decompress(data []byte) ([]byte, error) {
	var r io.Reader = brotli.NewReader(bytes.NewReader(data))
	if c.readLimit > 0 {
		r = io.LimitReader(r, c.readLimit+1)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewCodecError("brotli decompress", err).Err()
	}
	if c.readLimit > 0 && int64(len(payload)) > c.readLimit {
		return nil, errors.NewCodecError(fmt.Sprintf("decompressed frame exceeds read limit of %d bytes", c.readLimit), nil).Err()
	}
	return payload, nil
}
