package lobby

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "client outbox closed unexpectedly")
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvNoSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			// channel closed → that's fine; no further snapshots possible
			return
		}
		t.Fatalf("expected no snapshot within %v, but got: %+v", within, s)
	case <-time.After(within):
		// good: no snapshot
	}
}

func recvStatus(t *testing.T, l *Lobby) Status {
	t.Helper()
	reply := make(chan Status, 1)
	l.Inbox() <- GetState{Reply: reply}
	select {
	case st := <-reply:
		return st
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out waiting for status")
		return Status{} // unreachable
	}
}

func send(t *testing.T, l *Lobby, playerID string, cmd engine.Command) error {
	t.Helper()
	reply := make(chan error, 1)
	l.Inbox() <- FromClient{PlayerID: playerID, Cmd: cmd, Reply: reply}
	select {
	case err := <-reply:
		return err
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out waiting for reply to %s", cmd.Type)
		return nil // unreachable
	}
}

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewLobby(ctx, "ABC123", engine.NewState(engine.DefaultRules(), 1), zap.NewNop())
}

func TestLobby_Join_BroadcastsSnapshotAndVersionIncrements(t *testing.T) {
	l := newTestLobby(t)

	clientOut := make(chan Snapshot, 2) // small buffer so broadcast doesn’t block
	l.Inbox() <- Connect{ClientID: "c1", PlayerID: "alice", Outbox: clientOut}

	first := recvSnapshot(t, clientOut, 100*time.Millisecond)
	assert.Equal(t, 0, first.Version)
	assert.Nil(t, first.View.Self)
	assert.Empty(t, first.View.Players)

	require.NoError(t, send(t, l, "alice", engine.Command{Type: engine.CmdJoinGame}))

	next := recvSnapshot(t, clientOut, 100*time.Millisecond)
	assert.Equal(t, 1, next.Version)
	require.NotNil(t, next.View.Self)
	assert.Equal(t, "alice", next.View.Self.ID)
	assert.True(t, engine.ContainsEvent(next.Events, engine.EvtPlayerJoined))

	l.Inbox() <- Shutdown{}
}

func TestLobby_RejectedCommandRepliesOnly(t *testing.T) {
	l := newTestLobby(t)

	out := make(chan Snapshot, 2)
	l.Inbox() <- Connect{ClientID: "c1", PlayerID: "alice", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	err := send(t, l, "alice", engine.Command{Type: engine.CmdStartGame})
	require.ErrorIs(t, err, engine.ErrNotJoined)
	recvNoSnapshot(t, out, 50*time.Millisecond)

	st := recvStatus(t, l)
	assert.Equal(t, 0, st.Version)
	assert.Empty(t, st.Journal)
}

func TestLobby_EventsAreFilteredPerPlayer(t *testing.T) {
	l := newTestLobby(t)
	for _, id := range []string{"alice", "bob"} {
		require.NoError(t, send(t, l, id, engine.Command{Type: engine.CmdJoinGame}))
	}
	require.NoError(t, send(t, l, "alice", engine.Command{Type: engine.CmdStartGame}))

	aliceOut := make(chan Snapshot, 4)
	bobOut := make(chan Snapshot, 4)
	l.Inbox() <- Connect{ClientID: "c1", PlayerID: "alice", Outbox: aliceOut}
	l.Inbox() <- Connect{ClientID: "c2", PlayerID: "bob", Outbox: bobOut}
	_ = recvSnapshot(t, aliceOut, 100*time.Millisecond)
	_ = recvSnapshot(t, bobOut, 100*time.Millisecond)

	// Nobody holds medallions yet.
	err := send(t, l, "alice", engine.Command{Type: engine.CmdTransferMedallion, TargetID: "bob", Amount: 1})
	require.ErrorIs(t, err, engine.ErrInsufficient)

	require.NoError(t, send(t, l, "alice", engine.Command{Type: engine.CmdLockTrading}))
	a := recvSnapshot(t, aliceOut, 100*time.Millisecond)
	b := recvSnapshot(t, bobOut, 100*time.Millisecond)
	assert.Equal(t, a.Version, b.Version)
	assert.True(t, engine.ContainsEvent(a.Events, engine.EvtPlayerLocked))
	assert.True(t, engine.ContainsEvent(b.Events, engine.EvtPlayerLocked))
	assert.True(t, a.View.Self.LockedTrade)
	assert.False(t, b.View.Self.LockedTrade)
}

func TestLobby_DropSlowClient(t *testing.T) {
	l := newTestLobby(t)

	clientOut := make(chan Snapshot, 1)
	l.Inbox() <- Connect{ClientID: "c1", Outbox: clientOut}

	require.NoError(t, send(t, l, "alice", engine.Command{Type: engine.CmdJoinGame}))

	st := recvStatus(t, l)
	assert.Equal(t, 0, st.NumClients, "expected slow client to be dropped")
}

func TestLobby_JournalReplaysToLiveState(t *testing.T) {
	l := newTestLobby(t)
	initial := engine.NewState(engine.DefaultRules(), 1)

	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, send(t, l, id, engine.Command{Type: engine.CmdJoinGame}))
	}
	require.NoError(t, send(t, l, "bob", engine.Command{Type: engine.CmdStartGame}))
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, send(t, l, id, engine.Command{Type: engine.CmdLockTrading}))
	}

	st := recvStatus(t, l)
	require.Len(t, st.Journal, 7)
	actions := make([]engine.Action, len(st.Journal))
	seen := map[string]bool{}
	for i, e := range st.Journal {
		actions[i] = e.Action
		assert.NotEmpty(t, e.ID)
		assert.False(t, seen[e.ID], "journal ids must be unique")
		seen[e.ID] = true
	}

	_, replayed, err := engine.Replay(initial, actions)
	require.NoError(t, err)
	assert.Equal(t, st.State, replayed)
	assert.Equal(t, 7, st.Version)
}

func TestLobby_GetView(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, send(t, l, "alice", engine.Command{Type: engine.CmdJoinGame}))

	reply := make(chan Snapshot, 1)
	l.Inbox() <- GetView{PlayerID: "alice", Reply: reply}
	snap := recvSnapshot(t, reply, 100*time.Millisecond)
	require.NotNil(t, snap.View.Self)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, engine.GameWaiting, snap.View.GameStatus)
}

func TestLobby_Shutdown_ClosesClients(t *testing.T) {
	l := newTestLobby(t)

	out := make(chan Snapshot, 2)
	l.Inbox() <- Connect{ClientID: "c1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond) // drain connect snapshot

	l.Inbox() <- Shutdown{}

	select {
	case _, ok := <-out:
		assert.False(t, ok, "outbox should be closed on shutdown")
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("outbox was not closed")
	}
	select {
	case <-l.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("lobby did not stop")
	}
	assert.False(t, l.Send(GetState{Reply: make(chan Status, 1)}))
}
