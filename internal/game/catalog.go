package game

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed cards/*.txt
var defaultCatalogs embed.FS

// Default catalog file names, embedded in the binary.
const (
	PlayerCatalogFile = "player_cards.txt"
	CatCatalogFile    = "cat_cards.txt"
)

const catalogFields = 6

// ParseCatalog reads `name;description;type;magnitude;power_level;accuracy`
// records, one per line. Blank lines and lines starting with '#' are
// skipped. Any malformed record fails the whole catalog.
func ParseCatalog(r io.Reader, source string) ([]*Card, error) {
	var cards []*Card
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		card, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
		}
		cards = append(cards, card)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return cards, nil
}

// LoadCatalog parses the catalog file at path.
func LoadCatalog(path string) ([]*Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCatalog(f, path)
}

// LoadDefaultCatalog parses one of the embedded catalogs by file name.
func LoadDefaultCatalog(name string) ([]*Card, error) {
	f, err := defaultCatalogs.Open("cards/" + name)
	if err != nil {
		return nil, fmt.Errorf("default catalog %q: %w", name, err)
	}
	defer f.Close()
	return ParseCatalog(f, name)
}

// LoadCatalogOrDefault loads path when set, otherwise the embedded catalog.
func LoadCatalogOrDefault(path, fallback string) ([]*Card, error) {
	if path == "" {
		return LoadDefaultCatalog(fallback)
	}
	return LoadCatalog(path)
}

func parseRecord(line string) (*Card, error) {
	fields := strings.Split(line, ";")
	if len(fields) != catalogFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedCatalog, catalogFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return nil, fmt.Errorf("%w: field %d is empty", ErrMalformedCatalog, i+1)
		}
	}

	ct, err := ParseCardType(fields[2])
	if err != nil {
		return nil, err
	}

	card := &Card{
		Name:        fields[0],
		Description: fields[1],
		Type:        ct,
	}

	if ct == CardTypeAttack {
		card.Damage, err = parseDamageRange(fields[3])
	} else {
		card.Factor, err = parseFactor(ct, fields[3])
	}
	if err != nil {
		return nil, err
	}

	card.PowerLevel, err = strconv.ParseFloat(fields[4], 64)
	if err != nil || card.PowerLevel < 0 {
		return nil, fmt.Errorf("%w: invalid power level %q", ErrMalformedCatalog, fields[4])
	}

	card.Accuracy, err = strconv.ParseFloat(fields[5], 64)
	if err != nil || card.Accuracy < 0 || card.Accuracy > 1 {
		return nil, fmt.Errorf("%w: accuracy %q must be a number between 0 and 1", ErrMalformedCatalog, fields[5])
	}

	return card, nil
}

func parseDamageRange(s string) (DamageRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return DamageRange{}, fmt.Errorf("%w: attack magnitude %q must be min,max", ErrMalformedCatalog, s)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return DamageRange{}, fmt.Errorf("%w: attack magnitude %q: %v", ErrMalformedCatalog, s, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return DamageRange{}, fmt.Errorf("%w: attack magnitude %q: %v", ErrMalformedCatalog, s, err)
	}
	if lo < 0 || hi < lo {
		return DamageRange{}, fmt.Errorf("%w: attack magnitude %q needs 0 <= min <= max", ErrMalformedCatalog, s)
	}
	return DamageRange{Min: lo, Max: hi}, nil
}

func parseFactor(ct CardType, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s magnitude %q is not a number", ErrMalformedCatalog, ct, s)
	}
	switch ct {
	case CardTypeAttackDebuff, CardTypeDefenseDebuff:
		// debuffs are a fractional reduction applied as (1 - f)
		if f < 0 || f > 1 {
			return 0, fmt.Errorf("%w: %s magnitude %s must be between 0 and 1", ErrMalformedCatalog, ct, s)
		}
	default:
		if f <= 0 {
			return 0, fmt.Errorf("%w: %s magnitude %s must be positive", ErrMalformedCatalog, ct, s)
		}
	}
	return f, nil
}
