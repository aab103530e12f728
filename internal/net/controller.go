package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

// NetworkController implements game.Controller over a TCP connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message of the expected type. Must be called with mu
// held.
func (nc *NetworkController) recv(ctx context.Context, want string) (ClientMessage, error) {
	// unblock the read when the match is cancelled
	stop := context.AfterFunc(ctx, func() { _ = nc.conn.Close() })
	defer stop()

	var msg ClientMessage
	if err := nc.dec.Decode(&msg); err != nil {
		if ctx.Err() != nil {
			return msg, ctx.Err()
		}
		return msg, err
	}
	if msg.Type != want {
		return msg, fmt.Errorf("expected %q message, got %q", want, msg.Type)
	}
	return msg, nil
}

// ReadJoin waits for the client's join handshake.
func (nc *NetworkController) ReadJoin(ctx context.Context) (ClientMessage, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.recv(ctx, MsgJoin)
}

// ChooseDeck implements game.Controller.
func (nc *NetworkController) ChooseDeck(ctx context.Context, decks []game.Deck) (int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	views := make([]DeckView, len(decks))
	for i, d := range decks {
		views[i] = DeckView{Index: i, Cards: NewCardViews(d)}
	}
	if err := nc.send(ServerMessage{Type: MsgChooseDeck, Decks: views}); err != nil {
		return 0, fmt.Errorf("send choose_deck: %w", err)
	}

	resp, err := nc.recv(ctx, MsgDeck)
	if err != nil {
		return 0, fmt.Errorf("recv deck: %w", err)
	}
	return resp.Index, nil
}

// ChooseCard implements game.Controller.
func (nc *NetworkController) ChooseCard(ctx context.Context, view game.TurnView) (*game.Card, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type: MsgChooseCard,
		State: &StateView{
			Turn: view.Turn,
			You:  NewPlayerView(view.Self),
			Foe:  NewPlayerView(view.Foe),
		},
		Cards: NewCardViews(view.Deck),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_card: %w", err)
	}

	resp, err := nc.recv(ctx, MsgCard)
	if err != nil {
		return nil, fmt.Errorf("recv card: %w", err)
	}
	if resp.Index < 0 || resp.Index >= view.Deck.Len() {
		return nil, fmt.Errorf("card %d is not in a %d-card deck", resp.Index+1, view.Deck.Len())
	}
	return view.Deck.Card(resp.Index), nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(matchID, winner, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgGameOver, MatchID: matchID, Winner: winner, Result: result})
}

// Notify implements game.Controller.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	return nc.send(ServerMessage{Type: MsgNotify, Event: NewEventView(event)})
}
