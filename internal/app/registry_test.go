package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/testutil"
)

func newTestRegistry() (*Registry, *testutil.Recorder) {
	rec := &testutil.Recorder{}
	events := NewEvents()
	events.Subscribe(rec)
	return NewRegistry(events), rec
}

func TestRegistry_Register(t *testing.T) {
	reg, rec := newTestRegistry()

	a := reg.Register(&testutil.FakeSignal{})
	b := reg.Register(&testutil.FakeSignal{})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Alive)
	assert.False(t, a.InRoom())
	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []domain.ConnID{a.ID, b.ID}, rec.Connects)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	reg, rec := newTestRegistry()
	sig := &testutil.FakeSignal{}
	conn := reg.Register(sig)

	require.True(t, reg.Remove(conn.ID))
	assert.False(t, reg.Remove(conn.ID))
	assert.False(t, reg.Remove("missing"))

	assert.True(t, sig.Closed())
	assert.Equal(t, 1, sig.Closes())
	assert.Equal(t, []domain.ConnID{conn.ID}, rec.Disconnects)
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_Flags(t *testing.T) {
	reg, _ := newTestRegistry()
	conn := reg.Register(&testutil.FakeSignal{})

	require.True(t, reg.SetRoom(conn.ID, "home"))
	room, ok := reg.RoomOf(conn.ID)
	require.True(t, ok)
	assert.Equal(t, domain.RoomName("home"), room)

	require.True(t, reg.MarkChallenged(conn.ID))
	got, _, ok := reg.Get(conn.ID)
	require.True(t, ok)
	assert.False(t, got.Alive)

	require.True(t, reg.MarkAlive(conn.ID))
	got, _, _ = reg.Get(conn.ID)
	assert.True(t, got.Alive)

	assert.False(t, reg.SetRoom("missing", "home"))
	assert.False(t, reg.MarkAlive("missing"))
	assert.False(t, reg.MarkChallenged("missing"))
	_, ok = reg.RoomOf("missing")
	assert.False(t, ok)
}

func TestRegistry_ForEachToleratesRemoval(t *testing.T) {
	reg, _ := newTestRegistry()
	for i := 0; i < 10; i++ {
		reg.Register(&testutil.FakeSignal{})
	}

	visited := map[domain.ConnID]int{}
	reg.ForEach(func(conn domain.Connection, _ core.SignalConnection) {
		visited[conn.ID]++
		if len(visited) == 1 {
			reg.ForEach(func(other domain.Connection, _ core.SignalConnection) {
				if other.ID != conn.ID {
					reg.Remove(other.ID)
				}
			})
		}
	})

	assert.Len(t, visited, 1)
	for _, n := range visited {
		assert.Equal(t, 1, n)
	}
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_MembersOfRoom(t *testing.T) {
	reg, _ := newTestRegistry()
	a := reg.Register(&testutil.FakeSignal{})
	b := reg.Register(&testutil.FakeSignal{})
	c := reg.Register(&testutil.FakeSignal{})
	reg.SetRoom(a.ID, "red")
	reg.SetRoom(b.ID, "red")
	reg.SetRoom(c.ID, "blue")

	ids := map[domain.ConnID]bool{}
	for _, snap := range reg.MembersOfRoom("red") {
		ids[snap.Conn.ID] = true
	}
	assert.Equal(t, map[domain.ConnID]bool{a.ID: true, b.ID: true}, ids)
	assert.Empty(t, reg.MembersOfRoom("green"))
}

func TestRegistry_CloseAll(t *testing.T) {
	reg, rec := newTestRegistry()
	sigs := []*testutil.FakeSignal{{}, {}, {}}
	for _, s := range sigs {
		reg.Register(s)
	}

	assert.Equal(t, 3, reg.CloseAll())
	assert.Equal(t, 0, reg.CloseAll())
	for _, s := range sigs {
		assert.True(t, s.Closed())
	}
	_, disconnects, _, _ := rec.Counts()
	assert.Equal(t, 3, disconnects)
}

type panicObserver struct{ core.NopObserver }

func (panicObserver) OnConnect(domain.Connection) { panic("boom") }

func TestEvents_ObserverPanicIsContained(t *testing.T) {
	rec := &testutil.Recorder{}
	events := NewEvents()
	events.Subscribe(panicObserver{})
	events.Subscribe(rec)
	reg := NewRegistry(events)

	require.NotPanics(t, func() { reg.Register(&testutil.FakeSignal{}) })
	connects, _, _, _ := rec.Counts()
	assert.Equal(t, 1, connects)
}

func TestEvents_NilIsSilent(t *testing.T) {
	reg := NewRegistry(nil)
	require.NotPanics(t, func() {
		conn := reg.Register(&testutil.FakeSignal{})
		reg.Remove(conn.ID)
	})
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, DropFrame, p.OnBackPressure("r", domain.Connection{}))

	p, err = PolicyByName("kick")
	require.NoError(t, err)
	assert.Equal(t, KickMember, p.OnBackPressure("r", domain.Connection{}))

	_, err = PolicyByName("retry")
	assert.Error(t, err)
}
