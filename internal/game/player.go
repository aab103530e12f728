package game

import (
	"fmt"
	"math"
	"strconv"
)

// Player is one side of a match: the owner or the cat.
type Player struct {
	Name              string
	HP                int
	AttackMultiplier  float64
	DefenseMultiplier float64

	// FearCount starts at 1; the cat's panic reaction fires only while it
	// is still 1 and bumps it afterwards.
	FearCount int
}

// NewPlayer creates a player with neutral multipliers.
func NewPlayer(name string, hp int) *Player {
	return &Player{
		Name:              name,
		HP:                hp,
		AttackMultiplier:  1.0,
		DefenseMultiplier: 1.0,
		FearCount:         1,
	}
}

// ChangeStat multiplies the named stat by factor.
func (p *Player) ChangeStat(stat Stat, factor float64) error {
	switch stat {
	case StatAttack:
		p.AttackMultiplier *= factor
	case StatDefense:
		p.DefenseMultiplier *= factor
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStat, int(stat))
	}
	return nil
}

// Multiplier returns the current value of the named stat.
func (p *Player) Multiplier(stat Stat) float64 {
	if stat == StatAttack {
		return p.AttackMultiplier
	}
	return p.DefenseMultiplier
}

// TakeDamage subtracts n from HP, flooring at 0, and returns the new HP.
func (p *Player) TakeDamage(n int) int {
	p.HP -= n
	if p.HP < 0 {
		p.HP = 0
	}
	return p.HP
}

// Defeated reports whether the player has no health left.
func (p *Player) Defeated() bool {
	return p.HP <= 0
}

func (p *Player) String() string {
	return fmt.Sprintf("%s: HP = %d, Attack Multiplier = %s, Defense Multiplier = %s",
		p.Name, p.HP, round2(p.AttackMultiplier), round2(p.DefenseMultiplier))
}

func round2(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
