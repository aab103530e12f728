package game

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"time"
)

// Deck construction limits used for every offered deck.
const (
	DeckChoices  = 3
	MaxDeckCards = 6
	MaxDeckPower = 15.0
)

// Starting health per match length, and the cat's bonus on hard.
const (
	ShortMatchHP = 100
	LongMatchHP  = 500
	HardCatBonus = 100
)

// Difficulty selects the cat's starting bonus.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("invalid difficulty %q (want easy or hard)", s)
	}
}

// Length selects the starting health of both sides.
type Length int

const (
	LengthShort Length = iota
	LengthLong
)

func (l Length) String() string {
	switch l {
	case LengthShort:
		return "short"
	case LengthLong:
		return "long"
	default:
		return "unknown"
	}
}

// ParseLength accepts "short" or "long".
func ParseLength(s string) (Length, error) {
	switch s {
	case "short":
		return LengthShort, nil
	case "long":
		return LengthLong, nil
	default:
		return 0, fmt.Errorf("invalid length %q (want short or long)", s)
	}
}

// Rules holds the per-match settings chosen on the command line.
type Rules struct {
	Difficulty Difficulty
	Length     Length
}

// StartingHP returns the owner's and the cat's starting health.
func (r Rules) StartingHP() (owner, cat int) {
	hp := ShortMatchHP
	if r.Length == LengthLong {
		hp = LongMatchHP
	}
	owner, cat = hp, hp
	if r.Difficulty == DifficultyHard {
		cat += HardCatBonus
	}
	return owner, cat
}

// NewRand returns a random source for seed, or a crypto-seeded one when
// seed is 0. The seed actually used is returned for replay.
func NewRand(seed int64) (*mrand.Rand, int64, error) {
	if seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, 0, fmt.Errorf("read random seed: %w", err)
		}
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return mrand.New(mrand.NewSource(seed)), seed, nil
}

// defaultRand is the random source of a match configured without one. It
// falls back to a clock seed when the system source cannot be read.
func defaultRand() *mrand.Rand {
	rng, _, err := NewRand(0)
	if err != nil {
		return mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return rng
}
