package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotmatrix/internal/state"
)

func boardWith(t *testing.T, width, height int, on ...state.Cell) *state.Board {
	t.Helper()
	b, err := state.NewBoard(width, height)
	require.NoError(t, err)
	for _, c := range on {
		b.SetCell(c, true)
	}
	return b
}

func TestSnapshotMessageRoundTrip(t *testing.T) {
	b := boardWith(t, 3, 2, state.Cell{Col: 0, Row: 0}, state.Cell{Col: 2, Row: 1})
	b.SetDotSize(0.9)
	m := SnapshotMessage(b.Session(), b.Snapshot())

	assert.Equal(t, TypeSnapshot, m.Type)
	assert.Equal(t, []string{"100", "001"}, m.Rows)
	assert.Equal(t, b.Revision(), m.Revision)

	s, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, state.Dimensions{Width: 3, Height: 2}, s.Dimensions())
	assert.Equal(t, b.Snapshot().Grid.Filled(), s.Grid.Filled())
	assert.Equal(t, 0.9, s.DotSize)
}

func TestMessageSnapshotRejectsMalformed(t *testing.T) {
	good := Message{Type: TypeSnapshot, Width: 2, Height: 2, Rows: []string{"01", "10"}}
	tests := map[string]func(*Message){
		"wrong type":     func(m *Message) { m.Type = "draw" },
		"zero width":     func(m *Message) { m.Width = 0 },
		"missing row":    func(m *Message) { m.Rows = m.Rows[:1] },
		"short row":      func(m *Message) { m.Rows = []string{"0", "10"} },
		"bad cell value": func(m *Message) { m.Rows = []string{"0x", "10"} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			m := good
			m.Rows = append([]string(nil), good.Rows...)
			mutate(&m)
			_, err := m.Snapshot()
			assert.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestMirrorDropsStaleFrames(t *testing.T) {
	var updates int
	m := &Mirror{OnUpdate: func() { updates++ }}
	frame := func(session string, rev uint64, rows ...string) Message {
		return Message{Type: TypeSnapshot, Session: session, Revision: rev, Width: len(rows[0]), Height: len(rows), Rows: rows}
	}

	ok, err := m.Apply(frame("a", 5, "10"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Apply(frame("a", 4, "01"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []state.Cell{{Col: 0, Row: 0}}, m.Snapshot().Grid.Filled())

	// a restarted editor starts counting again
	ok, err = m.Apply(frame("b", 1, "01"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []state.Cell{{Col: 1, Row: 0}}, m.Snapshot().Grid.Filled())

	_, err = m.Apply(Message{Type: "nope"})
	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.Equal(t, 2, updates)
}

func TestParseLink(t *testing.T) {
	addr, err := ParseLink("dotmatrix://192.168.1.20:8888/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:8888", addr)

	_, err = ParseLink("localboard://1.2.3.4:1")
	assert.Error(t, err)
	_, err = ParseLink("dotmatrix://nohost")
	assert.Error(t, err)
}

func TestHubDeliversSnapshotsToViewer(t *testing.T) {
	hub := NewHub()
	mux := http.NewServeMux()
	mux.Handle(Path, hub)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	b := boardWith(t, 4, 4, state.Cell{Col: 1, Row: 2})
	require.NoError(t, hub.Publish(SnapshotMessage(b.Session(), b.Snapshot())))

	ctx, cancel := context.WithCancel(t.Context())
	got := make(chan Message, 8)
	errc := make(chan error, 1)
	go func() {
		errc <- Dial(ctx, strings.TrimPrefix(srv.URL, "http://"), func(m Message) { got <- m })
	}()

	recv := func() Message {
		t.Helper()
		select {
		case m := <-got:
			return m
		case <-time.After(5 * time.Second):
			t.Fatal("no message from hub")
			return Message{}
		}
	}

	mirror := &Mirror{}
	_, err := mirror.Apply(recv())
	require.NoError(t, err)
	assert.Equal(t, []state.Cell{{Col: 1, Row: 2}}, mirror.Snapshot().Grid.Filled())
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 5*time.Second, 10*time.Millisecond)

	b.SetCell(state.Cell{Col: 3, Row: 3}, true)
	require.NoError(t, hub.Publish(SnapshotMessage(b.Session(), b.Snapshot())))
	_, err = mirror.Apply(recv())
	require.NoError(t, err)
	assert.Len(t, mirror.Snapshot().Grid.Filled(), 2)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Dial did not return after cancel")
	}
	require.Eventually(t, func() bool { return hub.Peers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestServerFollowsBoard(t *testing.T) {
	srv, err := Listen(0, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	assert.True(t, strings.HasPrefix(srv.Link(), LinkScheme))

	b := boardWith(t, 2, 2)
	srv.Follow(b)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	mirror := &Mirror{}
	updated := make(chan struct{}, 8)
	mirror.OnUpdate = func() { updated <- struct{}{} }
	go func() {
		_ = Dial(ctx, "127.0.0.1:"+strconv.Itoa(srv.Port()), func(m Message) { _, _ = mirror.Apply(m) })
	}()

	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}
	require.Eventually(t, func() bool { return srv.Hub().Peers() == 1 }, 5*time.Second, 10*time.Millisecond)

	b.SetCell(state.Cell{Col: 1, Row: 0}, true)
	require.Eventually(t, func() bool {
		g := mirror.Snapshot().Grid
		return g != nil && g.Get(state.Cell{Col: 1, Row: 0})
	}, 5*time.Second, 10*time.Millisecond)
}
