package config

import (
	"time"
)

const (
	CodecMsgpack  = "msgpack"
	CodecEngineIO = "engine.io"
)

type RelayOptionsInterface interface {
	AwaitOptionsInterface

	SetCodec(string)
	GetRawCodec() *string
	Codec() string

	SetReadLimit(int64)
	GetRawReadLimit() *int64
	ReadLimit() int64

	SetWriteTimeout(time.Duration)
	GetRawWriteTimeout() *time.Duration
	WriteTimeout() time.Duration

	SetCompressThreshold(int)
	GetRawCompressThreshold() *int
	CompressThreshold() int

	SetCloseEvent(string)
	GetRawCloseEvent() *string
	CloseEvent() string
}

type RelayOptions struct {
	AwaitOptions

	// frame codec: "msgpack" or "engine.io"
	codec *string

	// how many bytes a frame can be before the connection is failed
	readLimit *int64

	// how long a single frame write may take
	writeTimeout *time.Duration

	// msgpack frames of at least this many bytes are brotli compressed, negative disables
	compressThreshold *int

	// event emitted with (code, text) when the connection closes
	closeEvent *string
}

func DefaultRelayOptions() *RelayOptions {
	return &RelayOptions{}
}

func (r *RelayOptions) Assign(data RelayOptionsInterface) RelayOptionsInterface {
	if data == nil {
		return r
	}

	r.AwaitOptions.Assign(data)

	if r.GetRawCodec() == nil {
		r.SetCodec(data.Codec())
	}

	if r.GetRawReadLimit() == nil {
		r.SetReadLimit(data.ReadLimit())
	}

	if r.GetRawWriteTimeout() == nil {
		r.SetWriteTimeout(data.WriteTimeout())
	}

	if r.GetRawCompressThreshold() == nil {
		r.SetCompressThreshold(data.CompressThreshold())
	}

	if r.GetRawCloseEvent() == nil {
		r.SetCloseEvent(data.CloseEvent())
	}

	return r
}

// frame codec: "msgpack" or "engine.io"
// @default "msgpack"
func (r *RelayOptions) SetCodec(codec string) {
	r.codec = &codec
}
func (r *RelayOptions) GetRawCodec() *string {
	return r.codec
}
func (r *RelayOptions) Codec() string {
	if r.codec == nil {
		return CodecMsgpack
	}

	return *r.codec
}

// how many bytes a frame can be before the connection is failed
// @default 1e6
func (r *RelayOptions) SetReadLimit(readLimit int64) {
	r.readLimit = &readLimit
}
func (r *RelayOptions) GetRawReadLimit() *int64 {
	return r.readLimit
}
func (r *RelayOptions) ReadLimit() int64 {
	if r.readLimit == nil {
		return 1e6
	}

	return *r.readLimit
}

// how long a single frame write may take
// @default 10000ms
func (r *RelayOptions) SetWriteTimeout(writeTimeout time.Duration) {
	r.writeTimeout = &writeTimeout
}
func (r *RelayOptions) GetRawWriteTimeout() *time.Duration {
	return r.writeTimeout
}
func (r *RelayOptions) WriteTimeout() time.Duration {
	if r.writeTimeout == nil {
		return time.Duration(10000 * time.Millisecond)
	}

	return *r.writeTimeout
}

// msgpack frames of at least this many bytes are brotli compressed, negative disables
// @default 1024
func (r *RelayOptions) SetCompressThreshold(compressThreshold int) {
	r.compressThreshold = &compressThreshold
}
func (r *RelayOptions) GetRawCompressThreshold() *int {
	return r.compressThreshold
}
func (r *RelayOptions) CompressThreshold() int {
	if r.compressThreshold == nil {
		return 1024
	}

	return *r.compressThreshold
}

// event emitted with (code, text) when the connection closes
// @default "close"
func (r *RelayOptions) SetCloseEvent(closeEvent string) {
	r.closeEvent = &closeEvent
}
func (r *RelayOptions) GetRawCloseEvent() *string {
	return r.closeEvent
}
func (r *RelayOptions) CloseEvent() string {
	if r.closeEvent == nil {
		return "close"
	}

	return *r.closeEvent
}
