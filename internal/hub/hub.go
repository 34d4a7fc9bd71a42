// Package hub is the registry of live sessions, keyed by join code.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

// CreateLobby replies nil if Code is already in use.
type CreateLobby struct {
	Code  string
	State engine.State
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code  string
	State engine.State // only used if creation happens
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type ShutdownHub struct {
	// Done, if set, is closed after every lobby has been told to stop.
	Done chan struct{}
}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	log     *zap.Logger
	root    *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		log:     log.Named("hub"),
		root:    log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if h.lobbies[msg.Code] != nil {
					msg.Reply <- nil // code taken
					break
				}
				msg.Reply <- h.create(msg.Code, msg.State)

			case EnsureLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.create(msg.Code, msg.State)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case RemoveLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					lb.Send(lobby.Shutdown{})
					delete(h.lobbies, msg.Code)
					h.log.Info("lobby removed", zap.String("session", msg.Code))
				}

			case ShutdownHub:
				h.shutdown()
				if msg.Done != nil {
					close(msg.Done)
				}
				return
			}
		}
	}
}

func (h *Hub) create(code string, state engine.State) *lobby.Lobby {
	lb := lobby.NewLobby(h.ctx, code, state, h.root)
	h.lobbies[code] = lb
	h.log.Info("lobby created", zap.String("session", code), zap.Int("lobbies", len(h.lobbies)))
	return lb
}

func (h *Hub) shutdown() {
	for code, lb := range h.lobbies {
		lb.Send(lobby.Shutdown{})
		delete(h.lobbies, code)
	}
	h.cancel()
	h.log.Info("hub stopped")
}
