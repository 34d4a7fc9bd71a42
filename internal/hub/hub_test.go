package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop())
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	state := engine.NewEmptyState()
	h.Inbox() <- CreateLobby{Code: "ZED123", State: state, Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	require.NotNil(t, lb1)
	assert.Same(t, lb1, lb2)
	assert.Equal(t, "ZED123", lb1.Code())
}

func TestHub_CreateRejectsTakenCode(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "AAA111", State: engine.NewEmptyState(), Reply: reply}
	require.NotNil(t, <-reply)

	h.Inbox() <- CreateLobby{Code: "AAA111", State: engine.NewEmptyState(), Reply: reply}
	assert.Nil(t, <-reply)
}

func TestHub_EnsureLobbyReusesExisting(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- EnsureLobby{Code: "BBB222", State: engine.NewEmptyState(), Reply: reply}
	lb1 := <-reply
	h.Inbox() <- EnsureLobby{Code: "BBB222", State: engine.NewEmptyState(), Reply: reply}
	lb2 := <-reply

	require.NotNil(t, lb1)
	assert.Same(t, lb1, lb2)
}

func TestHub_RemoveLobbyStopsIt(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "CCC333", State: engine.NewEmptyState(), Reply: reply}
	lb := <-reply
	require.NotNil(t, lb)

	h.Inbox() <- RemoveLobby{Code: "CCC333"}
	h.Inbox() <- GetLobby{Code: "CCC333", Reply: reply}
	assert.Nil(t, <-reply)

	select {
	case <-lb.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("removed lobby is still running")
	}
}

func TestHub_ShutdownStopsEveryLobby(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	var lobbies []*lobby.Lobby
	for _, code := range []string{"DDD444", "EEE555"} {
		h.Inbox() <- CreateLobby{Code: code, State: engine.NewEmptyState(), Reply: reply}
		lobbies = append(lobbies, <-reply)
	}

	done := make(chan struct{})
	h.Inbox() <- ShutdownHub{Done: done}
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("hub did not shut down")
	}
	for _, lb := range lobbies {
		select {
		case <-lb.Done():
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("lobby %s still running", lb.Code())
		}
	}
}
