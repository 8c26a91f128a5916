// Package testutil holds fakes shared by the package tests.
package testutil

import (
	"errors"
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

var ErrFakeClosed = errors.New("fake connection closed")

// FakeSignal is an in-memory core.SignalConnection.
type FakeSignal struct {
	mu       sync.Mutex
	frames   []core.Frame
	pings    int
	closed   bool
	closes   int
	SendErr  error
	Capacity int // 0 means unbounded
}

var _ core.SignalConnection = (*FakeSignal)(nil)

func (f *FakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFakeClosed
	}
	if f.SendErr != nil {
		return f.SendErr
	}
	if f.Capacity > 0 && len(f.frames) >= f.Capacity {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *FakeSignal) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFakeClosed
	}
	f.pings++
	return nil
}

func (f *FakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closes++
}

func (f *FakeSignal) Frames() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *FakeSignal) Pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *FakeSignal) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeSignal) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Recorder is a core.Observer that remembers every event.
type Recorder struct {
	mu          sync.Mutex
	Connects    []domain.ConnID
	Disconnects []domain.ConnID
	Creates     []domain.RoomName
	Deletes     []domain.RoomName
}

var _ core.Observer = (*Recorder)(nil)

func (r *Recorder) OnConnect(c domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Connects = append(r.Connects, c.ID)
}

func (r *Recorder) OnDisconnect(c domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Disconnects = append(r.Disconnects, c.ID)
}

func (r *Recorder) OnRoomCreate(room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Creates = append(r.Creates, room.Name)
}

func (r *Recorder) OnRoomDelete(room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deletes = append(r.Deletes, room.Name)
}

// Counts returns connects, disconnects, creates and deletes seen so far.
func (r *Recorder) Counts() (int, int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Connects), len(r.Disconnects), len(r.Creates), len(r.Deletes)
}

func (r *Recorder) DeletedRooms() []domain.RoomName {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RoomName(nil), r.Deletes...)
}
