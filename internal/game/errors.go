package game

import "errors"

// ErrMalformedCatalog indicates a catalog record could not be parsed or the
// catalog lacks the card types needed to build a deck.
var ErrMalformedCatalog = errors.New("malformed card catalog")

// ErrInvalidStat indicates a multiplier change named an unknown stat.
var ErrInvalidStat = errors.New("invalid stat; choose attack or defense")

// ErrEmptyDeck indicates the cat strategy had no eligible card to play.
var ErrEmptyDeck = errors.New("deck has no eligible cards")

// ErrUnknownCardType indicates a card carries a type outside the closed set.
var ErrUnknownCardType = errors.New("unknown card type")

// ErrMatchOver indicates a step was requested after the match ended.
var ErrMatchOver = errors.New("match is over")
