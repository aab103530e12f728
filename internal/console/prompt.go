// Package console implements the terminal side of a match: validated
// prompts, the turn menu and the local Controller.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned once the input stream ends. Every other bad
// answer is reported to the user and asked again.
var ErrInputClosed = errors.New("input closed")

// Prompter asks questions on out and reads validated answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Choice prints prompt and reads a number in [1, count], repeating until
// the answer is valid. It returns the 0-indexed choice.
func (p *Prompter) Choice(prompt string, count int) (int, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(p.out, "Please enter a valid number")
			continue
		}
		if n < 1 || n > count {
			fmt.Fprintln(p.out, "Input Invalid! Try again!")
			continue
		}
		return n - 1, nil
	}
}

// Word prints prompt and reads one of allowed, case-insensitively.
func (p *Prompter) Word(prompt string, allowed ...string) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		line = strings.ToLower(line)
		for _, a := range allowed {
			if line == a {
				return line, nil
			}
		}
		fmt.Fprintf(p.out, "Enter one of: %s\n", strings.Join(allowed, ", "))
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		// a final line without a newline still counts
		if line == "" {
			return "", ErrInputClosed
		}
	default:
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Menu options shown before every card choice.
const (
	optionSelectCard = 1
	optionShowDeck   = 2
	optionShowStats  = 3
)

const menuPrompt = "Menu:\n" +
	"Option 1: select card\n" +
	"Option 2: show your deck\n" +
	"Option 3: show stats\n" +
	"Select option: "

// CardMenu runs the turn menu until a card is selected. cards are the
// display strings of the deck, stats the lines shown for option 3. It
// returns the 0-indexed card.
func (p *Prompter) CardMenu(cards, stats []string) (int, error) {
	for {
		opt, err := p.Choice(menuPrompt, 3)
		if err != nil {
			return 0, err
		}
		switch opt + 1 {
		case optionShowDeck:
			fmt.Fprintln(p.out)
			WriteCards(p.out, cards)
			fmt.Fprintln(p.out)
		case optionShowStats:
			fmt.Fprintf(p.out, "\n%s\n\n", strings.Join(stats, "\n"))
		case optionSelectCard:
			idx, err := p.Choice(fmt.Sprintf("Select card 1-%d: ", len(cards)), len(cards))
			if err != nil {
				return 0, err
			}
			fmt.Fprintln(p.out)
			return idx, nil
		}
	}
}

// WriteCards lists cards as "n: card".
func WriteCards(w io.Writer, cards []string) {
	for i, c := range cards {
		fmt.Fprintf(w, "%d: %s\n", i+1, c)
	}
}

// WriteDecks lists every offered deck under a "Deck n" heading.
func WriteDecks(w io.Writer, decks [][]string) {
	for i, d := range decks {
		fmt.Fprintf(w, "Deck %d\n", i+1)
		WriteCards(w, d)
		fmt.Fprintln(w)
	}
}
