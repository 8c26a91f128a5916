package core

import "errors"

// Frame is a raw text payload, already encoded for the wire.
type Frame []byte

// ErrBackpressure is returned by TrySend when the recipient has stopped
// draining its queue.
var ErrBackpressure = errors.New("backpressure")

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues f without blocking. A closed transport or a stuck
	// queue is reported as an error and the frame is dropped.
	TrySend(Frame) error
	// Ping requests a liveness challenge. It must not block on I/O.
	Ping() error
	Close()
}
