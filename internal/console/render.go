package console

import (
	"fmt"
	"strings"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

const turnRule = "_____________________________________________________________"

const welcomeArt = `_._     _,-'""` + "`" + `-._
(,-.` + "`" + `._,'(       |\` + "`" + `-/|
    ` + "`" + `-.-' \ )-` + "`" + `( , o o)
          ` + "`" + `-    \` + "`" + `_` + "`" + `"'-`

const sleepingCatArt = `      |\      _,,,---,,_
ZZZzz /,` + "`" + `.-'` + "`" + `'    -.  ;-;;,_
     |,4-  ) )-,_. ,\ (  ` + "`" + `'-'
    '---''(_/--'  ` + "`" + `-'\_)`

const smugCatArt = `    |\__/,|   (` + "`" + `\
  _.|o o  |_   ) )
-(((---(((--------`

// Welcome is printed once before the deck choice.
func Welcome() string {
	return "\nWelcome to Purrsevere!\n\n" + welcomeArt + "\n\nStart by choosing a deck:\n"
}

// Narrate turns a match event into the text shown to the player named
// self. Events that have nothing to show produce "".
func Narrate(e log.GameEvent, self string) string {
	switch e.Type {
	case log.EventDeckChosen:
		if e.Actor != self {
			return ""
		}
		return e.Details + "\n"
	case log.EventNewTurn:
		if e.Actor != self {
			return ""
		}
		return fmt.Sprintf("%s\n\nTurn %d\n", turnRule, e.Turn)
	case log.EventCardLanded, log.EventCardMissed, log.EventHPChange, log.EventStatChange, log.EventPanic:
		return e.Details + "\n"
	case log.EventWin:
		if e.Actor == self {
			return "You win!\n\n" + sleepingCatArt + "\n"
		}
		return e.Actor + " wins!\n\n" + smugCatArt + "\n"
	default:
		return ""
	}
}

// CardLines returns the display string of every card in deck.
func CardLines(deck game.Deck) []string {
	cards := deck.Cards()
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.String()
	}
	return lines
}

// DeckLines returns CardLines for each deck.
func DeckLines(decks []game.Deck) [][]string {
	out := make([][]string, len(decks))
	for i, d := range decks {
		out[i] = CardLines(d)
	}
	return out
}

// StatLines describes both players for the stats menu option.
func StatLines(players ...*game.Player) []string {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		if p != nil {
			lines = append(lines, p.String())
		}
	}
	return lines
}

// Banner frames the final result line.
func Banner(result string) string {
	bar := strings.Repeat("═", 35)
	return fmt.Sprintf("\n%s\n          GAME OVER\n%s\n%s\n%s\n", bar, bar, result, bar)
}
