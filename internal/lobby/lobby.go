// Package lobby hosts one game session in a single goroutine. Every command
// is applied in inbox order, so the engine never sees concurrent access.
package lobby

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

type Msg interface{ isLobbyMsg() }

// Connect registers a client connection. PlayerID may be empty for a
// client that only watches.
type Connect struct {
	ClientID string
	PlayerID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Connect) isLobbyMsg() {}

type Disconnect struct{ ClientID string }

func (Disconnect) isLobbyMsg() {}

// FromClient carries one player command. Reply, if set, receives nil on
// success or the rejection.
type FromClient struct {
	PlayerID string
	Cmd      engine.Command
	Reply    chan error
}

func (FromClient) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan Status
}

func (GetState) isLobbyMsg() {}

type GetView struct {
	PlayerID string
	Reply    chan Snapshot
}

func (GetView) isLobbyMsg() {}

// Snapshot is what one client receives after every accepted command.
type Snapshot struct {
	Version int            `json:"version"`
	View    engine.View    `json:"view"`
	Events  []engine.Event `json:"events,omitempty"`
}

type Status struct {
	Version    int
	NumClients int
	State      engine.State
	Journal    []JournalEntry
}

// JournalEntry is one accepted action, in the order it was applied.
type JournalEntry struct {
	ID     string        `json:"id"`
	At     time.Time     `json:"at"`
	Action engine.Action `json:"action"`
}

type client struct {
	playerID string
	outbox   chan Snapshot
}

type Lobby struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]client
	journal []JournalEntry
	log     *zap.Logger
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, code string, initial engine.State, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		clients: make(map[string]client),
		log:     log.Named("lobby").With(zap.String("session", code)),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Connect:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = client{playerID: msg.PlayerID, outbox: msg.Outbox}
				msg.Outbox <- l.snapshot(msg.PlayerID, nil)
				l.log.Debug("client connected", zap.String("client", msg.ClientID), zap.String("player", msg.PlayerID))

			case Disconnect:
				if c, ok := l.clients[msg.ClientID]; ok {
					close(c.outbox)
					delete(l.clients, msg.ClientID)
				}

			case FromClient:
				l.handle(msg)

			case GetState:
				msg.Reply <- Status{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.state,
					Journal:    append([]JournalEntry(nil), l.journal...),
				}

			case GetView:
				msg.Reply <- l.snapshot(msg.PlayerID, nil)

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handle(msg FromClient) {
	events, next, err := engine.Apply(l.state, msg.PlayerID, msg.Cmd)
	if msg.Reply != nil {
		msg.Reply <- err
	}
	if err != nil {
		l.log.Info("command rejected",
			zap.String("player", msg.PlayerID),
			zap.String("cmd", string(msg.Cmd.Type)),
			zap.String("code", string(engine.CodeOf(err))),
			zap.Error(err))
		return
	}

	l.state = next
	l.version++
	l.journal = append(l.journal, JournalEntry{
		ID:     uuid.NewString(),
		At:     l.now(),
		Action: engine.Action{PlayerID: msg.PlayerID, Cmd: msg.Cmd},
	})
	l.log.Debug("command applied",
		zap.String("player", msg.PlayerID),
		zap.String("cmd", string(msg.Cmd.Type)),
		zap.Int("version", l.version),
		zap.Int("events", len(events)))
	if engine.ContainsEvent(events, engine.EvtGameFinished) {
		l.log.Info("game finished", zap.Int("actions", len(l.journal)))
	}
	l.broadcast(events)
}

// snapshot builds the personalized view for playerID, keeping only the
// events that are broadcast or addressed to that player.
func (l *Lobby) snapshot(playerID string, events []engine.Event) Snapshot {
	var mine []engine.Event
	for _, e := range events {
		if e.To == "" || e.To == playerID {
			mine = append(mine, e)
		}
	}
	return Snapshot{Version: l.version, View: engine.BuildView(l.state, playerID), Events: mine}
}

func (l *Lobby) shutdown() {
	for id, c := range l.clients {
		close(c.outbox) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
	l.log.Info("lobby closed", zap.Int("version", l.version))
}

func (l *Lobby) broadcast(events []engine.Event) {
	for id, c := range l.clients {
		select {
		case c.outbox <- l.snapshot(c.playerID, events):
			//ok
		default:
			// Client is slow/full - drop them.
			close(c.outbox)
			delete(l.clients, id)
			l.log.Warn("dropped slow client", zap.String("client", id), zap.String("player", c.playerID))
		}
	}
}

func (l *Lobby) Code() string { return l.code }

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Send delivers msg unless the lobby has already stopped.
func (l *Lobby) Send(msg Msg) bool {
	if l.ctx.Err() != nil {
		return false
	}
	select {
	case l.inbox <- msg:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Done is closed once the lobby loop has stopped accepting messages.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }
