package net

import (
	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

// Message types for the JSON protocol over TCP. One JSON object per message.
const (
	// server → client
	MsgNotify     = "notify"
	MsgChooseDeck = "choose_deck"
	MsgChooseCard = "choose_card"
	MsgGameOver   = "game_over"

	// client → server
	MsgJoin = "join"
	MsgDeck = "deck"
	MsgCard = "card"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_deck"
	Decks []DeckView `json:"decks,omitempty"`

	// For "choose_card"
	State *StateView `json:"state,omitempty"`
	Cards []CardView `json:"cards,omitempty"`

	// For "game_over"
	MatchID string `json:"match_id,omitempty"`
	Winner  string `json:"winner,omitempty"`
	Result  string `json:"result,omitempty"`
}

// EventView is a match event as sent to the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Actor   string `json:"actor"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Effect  string `json:"effect,omitempty"`
	Details string `json:"details"`
}

// NewEventView converts a match event for the wire.
func NewEventView(e log.GameEvent) *EventView {
	return &EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Actor:   e.Actor,
		Type:    e.Type.String(),
		Card:    e.Card,
		Effect:  e.Effect,
		Details: e.Details,
	}
}

// GameEvent rebuilds the match event. Unknown types come back as
// EventNewTurn with ok false.
func (ev *EventView) GameEvent() (e log.GameEvent, ok bool) {
	typ, ok := log.ParseEventType(ev.Type)
	if !ok {
		typ = log.EventNewTurn
	}
	return log.GameEvent{
		Seq:     ev.Seq,
		Turn:    ev.Turn,
		Actor:   ev.Actor,
		Type:    typ,
		Card:    ev.Card,
		Effect:  ev.Effect,
		Details: ev.Details,
	}, ok
}

// CardView describes one card of a deck.
type CardView struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Power float64 `json:"power"`
	Desc  string  `json:"desc"`
}

// NewCardViews lists the cards of deck in order.
func NewCardViews(deck game.Deck) []CardView {
	cards := deck.Cards()
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{
			Index: i,
			Name:  c.Name,
			Type:  c.Type.String(),
			Power: c.PowerLevel,
			Desc:  c.String(),
		}
	}
	return views
}

// DeckView is one offered deck.
type DeckView struct {
	Index int        `json:"index"`
	Cards []CardView `json:"cards"`
}

// StateView is the match from the acting player's side.
type StateView struct {
	Turn int        `json:"turn"`
	You  PlayerView `json:"you"`
	Foe  PlayerView `json:"foe"`
}

// PlayerView shows one player's health and multipliers.
type PlayerView struct {
	Name              string  `json:"name"`
	HP                int     `json:"hp"`
	AttackMultiplier  float64 `json:"attack_multiplier"`
	DefenseMultiplier float64 `json:"defense_multiplier"`
}

// NewPlayerView copies the visible fields of p.
func NewPlayerView(p *game.Player) PlayerView {
	return PlayerView{
		Name:              p.Name,
		HP:                p.HP,
		AttackMultiplier:  p.AttackMultiplier,
		DefenseMultiplier: p.DefenseMultiplier,
	}
}

// Player rebuilds a game.Player for display.
func (pv PlayerView) Player() *game.Player {
	p := game.NewPlayer(pv.Name, pv.HP)
	p.AttackMultiplier = pv.AttackMultiplier
	p.DefenseMultiplier = pv.DefenseMultiplier
	return p
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "deck" and "card" (0-indexed)
	Index int `json:"index"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`
}
