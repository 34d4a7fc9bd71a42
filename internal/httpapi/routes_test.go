package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
)

func newTestRouter(t *testing.T) (*hub.Hub, http.Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, zap.NewNop())
	return h, SetupRoutes(h, NewSessionFactory(engine.DefaultRules(), 5), nil, zap.NewNop())
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Code
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthz(t *testing.T) {
	_, router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSessionRegistersLobby(t *testing.T) {
	h, router := newTestRouter(t)
	code := createSession(t, router)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
	lb := <-reply
	require.NotNil(t, lb)
	assert.Equal(t, code, lb.Code())

	assert.NotEqual(t, code, createSession(t, router))
}

func TestGetView(t *testing.T) {
	h, router := newTestRouter(t)
	code := createSession(t, router)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
	lb := <-reply
	require.NotNil(t, lb)

	joined := make(chan error, 1)
	lb.Inbox() <- lobby.FromClient{PlayerID: "alice", Cmd: engine.Command{Type: engine.CmdJoinGame}, Reply: joined}
	select {
	case err := <-joined:
		require.NoError(t, err)
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out joining")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+code+"/players/alice/view", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap lobby.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, 1, snap.Version)
	require.NotNil(t, snap.View.Self)
	assert.Equal(t, "alice", snap.View.Self.ID)
	assert.Equal(t, engine.DefaultRules().StartingBank, snap.View.Bank)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/NOPE00/players/alice/view", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFactorySeeds(t *testing.T) {
	fixed := NewSessionFactory(engine.DefaultRules(), 11)
	assert.Equal(t, uint64(11), fixed().RNG.Seed)

	random := NewSessionFactory(engine.DefaultRules(), 0)
	assert.NotEqual(t, random().RNG.Seed, random().RNG.Seed)
}
