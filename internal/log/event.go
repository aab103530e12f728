package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventDeckChosen EventType = iota
	EventNewTurn
	EventCardLanded
	EventCardMissed
	EventHPChange
	EventStatChange
	EventPanic
	EventGameOver // one side reached 0 HP
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventDeckChosen:
		return "DeckChosen"
	case EventNewTurn:
		return "NewTurn"
	case EventCardLanded:
		return "CardLanded"
	case EventCardMissed:
		return "CardMissed"
	case EventHPChange:
		return "HPChange"
	case EventStatChange:
		return "StatChange"
	case EventPanic:
		return "Panic"
	case EventGameOver:
		return "GameOver"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// ParseEventType is the inverse of EventType.String. Unknown names map to
// false.
func ParseEventType(s string) (EventType, bool) {
	for t := EventDeckChosen; t <= EventWin; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which round (1-based)
	Actor   string    // acting player name ("Player", "Cat")
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Effect  string    // formatted effect magnitude for card events
	Details string    // human-readable detail string
}
