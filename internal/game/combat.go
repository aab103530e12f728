package game

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/peterkuimelis/purrsevere/internal/log"
)

// minMultiplier keeps a fully debuffed defense from dividing by zero.
const minMultiplier = 0.01

// Outcome is the result of a single card use.
type Outcome struct {
	Landed    bool
	Damage    int     // effective damage dealt (attack cards only)
	Magnitude float64 // damage for attacks, the card factor otherwise
}

// Resolver applies cards to players. It keeps no state between calls beyond
// its random source.
type Resolver struct {
	rng    *rand.Rand
	logger log.Recorder
}

// NewResolver creates a resolver drawing from rng and reporting to logger.
// A nil logger discards events.
func NewResolver(rng *rand.Rand, logger log.Recorder) *Resolver {
	if logger == nil {
		logger = log.RecorderFunc(func(log.GameEvent) {})
	}
	return &Resolver{rng: rng, logger: logger}
}

// ApplyCard uses card from user against target. Accuracy is rolled exactly
// once per use; the effect applies only when the roll is below the card's
// accuracy.
func (r *Resolver) ApplyCard(card *Card, user, target *Player, turn int) (Outcome, error) {
	landed := r.rng.Float64() < card.Accuracy
	out := Outcome{Landed: landed}

	switch card.Type {
	case CardTypeAttack:
		if landed {
			dmg := r.rng.Intn(card.Damage.Max-card.Damage.Min+1) + card.Damage.Min
			out.Damage = ScaleDamage(dmg, user.AttackMultiplier, target.DefenseMultiplier)
			out.Magnitude = float64(out.Damage)
			oldHP := target.HP
			target.TakeDamage(out.Damage)
			r.logger.Log(log.NewCardLandedEvent(turn, user.Name, card.Name, strconv.Itoa(out.Damage), card.Description))
			r.logger.Log(log.NewHPChangeEvent(turn, user.Name, target.Name, oldHP, target.HP))
		}
	case CardTypeAttackBuff, CardTypeAttackDebuff, CardTypeDefenseBuff, CardTypeDefenseDebuff:
		out.Magnitude = card.Factor
		if landed {
			r.logger.Log(log.NewCardLandedEvent(turn, user.Name, card.Name, FormatFactor(card.Factor), card.Description))
			if err := r.applyModifier(turn, card, user, target); err != nil {
				return out, err
			}
		}
	case CardTypeDefense:
		// no combat effect
		out.Magnitude = card.Factor
		if landed {
			r.logger.Log(log.NewCardLandedEvent(turn, user.Name, card.Name, FormatFactor(card.Factor), card.Description))
		}
	default:
		return out, fmt.Errorf("%w: %d on card %q", ErrUnknownCardType, int(card.Type), card.Name)
	}

	if !landed {
		r.logger.Log(log.NewCardMissedEvent(turn, user.Name, card.Name))
	}

	if target.Defeated() {
		r.logger.Log(log.NewGameOverEvent(turn, user.Name, target.Name))
	}
	return out, nil
}

// applyModifier compounds the stat multiplier a buff or debuff targets.
// Buffs multiply the user's stat by the factor; debuffs multiply the
// target's stat by (1 - factor).
func (r *Resolver) applyModifier(turn int, card *Card, user, target *Player) error {
	switch card.Type {
	case CardTypeAttackBuff:
		return r.changeStat(turn, user, user, StatAttack, card.Factor)
	case CardTypeAttackDebuff:
		return r.changeStat(turn, user, target, StatAttack, 1-card.Factor)
	case CardTypeDefenseBuff:
		return r.changeStat(turn, user, user, StatDefense, card.Factor)
	case CardTypeDefenseDebuff:
		return r.changeStat(turn, user, target, StatDefense, 1-card.Factor)
	default:
		return fmt.Errorf("%w: %s is not a modifier", ErrUnknownCardType, card.Type)
	}
}

func (r *Resolver) changeStat(turn int, user, target *Player, stat Stat, factor float64) error {
	old := target.Multiplier(stat)
	if err := target.ChangeStat(stat, factor); err != nil {
		return err
	}
	r.logger.Log(log.NewStatChangeEvent(turn, user.Name, target.Name, stat.String(), old, target.Multiplier(stat)))
	return nil
}

// ScaleDamage applies the attacker's and defender's multipliers to a raw
// damage roll, truncating toward zero.
func ScaleDamage(damage int, attack, defense float64) int {
	if defense < minMultiplier {
		defense = minMultiplier
	}
	scaled := math.Floor(float64(damage) * attack / defense)
	if scaled < 0 {
		return 0
	}
	return int(scaled)
}
