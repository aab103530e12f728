package game

import (
	"fmt"
	"strconv"
)

// --- Enums ---

type CardType int

const (
	CardTypeAttack CardType = iota
	CardTypeDefense
	CardTypeAttackBuff
	CardTypeAttackDebuff
	CardTypeDefenseBuff
	CardTypeDefenseDebuff
)

// String returns the catalog spelling of the type.
func (ct CardType) String() string {
	switch ct {
	case CardTypeAttack:
		return "attack"
	case CardTypeDefense:
		return "defense"
	case CardTypeAttackBuff:
		return "attack buff"
	case CardTypeAttackDebuff:
		return "attack debuff"
	case CardTypeDefenseBuff:
		return "defense buff"
	case CardTypeDefenseDebuff:
		return "defense debuff"
	default:
		return "unknown"
	}
}

// IsModifier reports whether the type is one of the four buff/debuff types.
func (ct CardType) IsModifier() bool {
	switch ct {
	case CardTypeAttackBuff, CardTypeAttackDebuff, CardTypeDefenseBuff, CardTypeDefenseDebuff:
		return true
	default:
		return false
	}
}

// ParseCardType maps a catalog type field to a CardType.
func ParseCardType(s string) (CardType, error) {
	switch s {
	case "attack":
		return CardTypeAttack, nil
	case "defense":
		return CardTypeDefense, nil
	case "attack buff":
		return CardTypeAttackBuff, nil
	case "attack debuff":
		return CardTypeAttackDebuff, nil
	case "defense buff":
		return CardTypeDefenseBuff, nil
	case "defense debuff":
		return CardTypeDefenseDebuff, nil
	default:
		return 0, fmt.Errorf("%w: unknown card type %q", ErrMalformedCatalog, s)
	}
}

type Stat int

const (
	StatAttack Stat = iota
	StatDefense
)

func (s Stat) String() string {
	switch s {
	case StatAttack:
		return "attack"
	case StatDefense:
		return "defense"
	default:
		return "unknown"
	}
}

// --- Card definition (static, from the catalog) ---

// DamageRange is the inclusive damage range of an attack card.
type DamageRange struct {
	Min int
	Max int
}

// Card is immutable once loaded. Damage is set for attack cards and Factor
// for every other type.
type Card struct {
	Name        string
	Description string
	Type        CardType
	Damage      DamageRange
	Factor      float64
	PowerLevel  float64
	Accuracy    float64
}

// String describes the card the way the deck menus show it.
func (c *Card) String() string {
	acc := percent(c.Accuracy)
	switch c.Type {
	case CardTypeAttack:
		return fmt.Sprintf("%s: does %d to %d damage with %d%% accuracy", c.Name, c.Damage.Min, c.Damage.Max, acc)
	case CardTypeDefense:
		return fmt.Sprintf("%s: adds %s defense with %d%% accuracy", c.Name, FormatFactor(c.Factor), acc)
	case CardTypeAttackBuff:
		return fmt.Sprintf("%s: add a %d%% buff to your attack with %d%% accuracy", c.Name, percent(c.Factor-1), acc)
	case CardTypeAttackDebuff:
		return fmt.Sprintf("%s: add a %d%% debuff to your cats' attack with %d%% accuracy", c.Name, percent(c.Factor), acc)
	case CardTypeDefenseBuff:
		return fmt.Sprintf("%s: add a %d%% buff to your defense with %d%% accuracy", c.Name, percent(c.Factor-1), acc)
	case CardTypeDefenseDebuff:
		return fmt.Sprintf("%s: add a %d%% debuff to your cats' defense with %d%% accuracy", c.Name, percent(c.Factor), acc)
	default:
		return c.Name
	}
}

// MaxDamage returns the top of the damage range, or 0 for non-attack cards.
func (c *Card) MaxDamage() int {
	if c.Type != CardTypeAttack {
		return 0
	}
	return c.Damage.Max
}

// FormatFactor renders a factor without trailing zeros ("1.5", "0.25", "2").
func FormatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// percent truncates toward zero, so a 0.57 factor reads as 56%.
func percent(f float64) int {
	return int(f * 100)
}
