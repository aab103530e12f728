package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/peterkuimelis/purrsevere/internal/console"
	"github.com/peterkuimelis/purrsevere/internal/game"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn   net.Conn
	name   string
	prompt *console.Prompter
	out    io.Writer
}

// NewClient wraps an established connection. Answers are read from in and
// everything the player sees goes to out.
func NewClient(conn net.Conn, name string, in io.Reader, out io.Writer) *Client {
	if name == "" {
		name = game.OwnerName
	}
	return &Client{conn: conn, name: name, prompt: console.NewPrompter(in, out), out: out}
}

// Connect dials a server, joins as name and runs the REPL.
func Connect(ctx context.Context, addr, name string, in io.Reader, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintln(out, "Connected! Waiting for the cat...")
	return NewClient(conn, name, in, out).Run(ctx)
}

// Run sends the join handshake and then handles server messages until
// game_over.
func (c *Client) Run(ctx context.Context) error {
	enc := json.NewEncoder(c.conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, Name: c.name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	return c.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	fmt.Fprint(c.out, console.Welcome())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseDeck:
			decks := make([][]string, len(msg.Decks))
			for i, d := range msg.Decks {
				decks[i] = cardLines(d.Cards)
			}
			console.WriteDecks(c.out, decks)
			idx, err := c.prompt.Choice("Choose your deck: ", len(decks))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgDeck, Index: idx}); err != nil {
				return fmt.Errorf("send deck: %w", err)
			}

		case MsgChooseCard:
			var stats []string
			if msg.State != nil {
				stats = console.StatLines(msg.State.You.Player(), msg.State.Foe.Player())
			}
			idx, err := c.prompt.CardMenu(cardLines(msg.Cards), stats)
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgCard, Index: idx}); err != nil {
				return fmt.Errorf("send card: %w", err)
			}

		case MsgGameOver:
			fmt.Fprint(c.out, console.Banner(msg.Result))
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	e, ok := ev.GameEvent()
	if !ok {
		// newer server; show the raw text
		fmt.Fprintln(c.out, ev.Details)
		return
	}
	fmt.Fprint(c.out, console.Narrate(e, c.name))
}

func cardLines(cards []CardView) []string {
	lines := make([]string, len(cards))
	for i, cv := range cards {
		lines[i] = cv.Desc
	}
	return lines
}
