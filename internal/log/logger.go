package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Recorder receives match events. The combat resolver and the match only
// depend on this.
type Recorder interface {
	Log(event GameEvent)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(event GameEvent)

func (f RecorderFunc) Log(event GameEvent) { f(event) }

// EventLogger is a Recorder that also keeps the events it has seen.
type EventLogger interface {
	Recorder
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- FileLogger: append-only turn history ---

// FileLogger appends the turn history to a file. The file is opened and
// closed on every write; write failures are reported to Operator and
// otherwise ignored so a broken log never stops a match.
type FileLogger struct {
	Path     string
	Operator *slog.Logger

	mu sync.Mutex
}

func NewFileLogger(path string, operator *slog.Logger) *FileLogger {
	if operator == nil {
		operator = slog.Default()
	}
	return &FileLogger{Path: path, Operator: operator}
}

func (l *FileLogger) Log(event GameEvent) {
	entry := FormatTurnEntry(event)
	if entry == "" {
		return
	}
	if err := l.appendEntry(entry); err != nil {
		l.Operator.Error("Error writing to log file", "path", l.Path, "error", err)
	}
}

func (l *FileLogger) appendEntry(entry string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open turn log: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, entry); err != nil {
		return fmt.Errorf("append turn log: %w", err)
	}
	return nil
}

// --- MultiLogger: fan out to several recorders ---

type MultiLogger []Recorder

func (m MultiLogger) Log(event GameEvent) {
	for _, r := range m {
		if r != nil {
			r.Log(event)
		}
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	actor := e.Actor
	// Pad actor to 8 chars for alignment
	for len(actor) < 8 {
		actor += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, actor, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatTurnEntry renders the turn-history block for a card use or the
// end-of-game marker. Other events produce "".
func FormatTurnEntry(e GameEvent) string {
	switch e.Type {
	case EventCardLanded:
		return fmt.Sprintf("Turn %d\n%s used %s with effect %s\n", e.Turn, e.Actor, e.Card, e.Effect)
	case EventCardMissed:
		return fmt.Sprintf("Turn %d\n%s used %s but missed\n", e.Turn, e.Actor, e.Card)
	case EventGameOver:
		return "_____ end of game ____\n"
	default:
		return ""
	}
}

// --- Helper constructors for common events ---

func NewDeckChosenEvent(actor string, number int, cards []string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventDeckChosen,
		Details: fmt.Sprintf("%s picks deck %d: %s", actor, number, strings.Join(cards, ", ")),
	}
}

func NewTurnEvent(turn int, actor string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, actor),
	}
}

func NewCardLandedEvent(turn int, actor, cardName, effect, description string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventCardLanded,
		Card:    cardName,
		Effect:  effect,
		Details: fmt.Sprintf("%s uses %s (%s): effect %s", actor, cardName, description, effect),
	}
}

func NewCardMissedEvent(turn int, actor, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventCardMissed,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s missed!", actor, cardName),
	}
}

func NewHPChangeEvent(turn int, actor, target string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventHPChange,
		Details: fmt.Sprintf("%s HP: %d → %d", target, oldHP, newHP),
	}
}

func NewStatChangeEvent(turn int, actor, target, stat string, oldValue, newValue float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventStatChange,
		Details: fmt.Sprintf("%s %s multiplier: %.2f → %.2f", target, stat, oldValue, newValue),
	}
}

func NewPanicEvent(turn int, actor, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventPanic,
		Card:    cardName,
		Details: fmt.Sprintf("%s is afraid! It reaches for %s", actor, cardName),
	}
}

func NewGameOverEvent(turn int, actor, loser string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   actor,
		Type:    EventGameOver,
		Details: fmt.Sprintf("%s has no health left", loser),
	}
}

func NewWinEvent(turn int, winner string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Actor:   winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins!", winner),
	}
}
