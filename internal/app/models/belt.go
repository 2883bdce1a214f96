package models

import (
	"fmt"
	"strings"

	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// BeltRank is a karate belt color
type BeltRank string

const (
	BeltWhite  BeltRank = "white"
	BeltYellow BeltRank = "yellow"
	BeltOrange BeltRank = "orange"
	BeltGreen  BeltRank = "green"
	BeltBlue   BeltRank = "blue"
	BeltPurple BeltRank = "purple"
	BeltBrown  BeltRank = "brown"
	BeltBlack  BeltRank = "black"
)

// BeltLedger is the canonical belt order, lowest first.
// Every belt comparison in the application goes through it.
var BeltLedger = []BeltRank{
	BeltWhite,
	BeltYellow,
	BeltOrange,
	BeltGreen,
	BeltBlue,
	BeltPurple,
	BeltBrown,
	BeltBlack,
}

// ErrInvalidBelt is returned for values that are not part of the ledger
var ErrInvalidBelt = fmt.Errorf("%w: unrecognized belt", apperrors.ErrValidationFailed)

// Portuguese names accepted on input
var beltAliases = map[string]BeltRank{
	"branco":   BeltWhite,
	"amarelo":  BeltYellow,
	"laranja":  BeltOrange,
	"verde":    BeltGreen,
	"azul":     BeltBlue,
	"roxo":     BeltPurple,
	"castanho": BeltBrown,
	"preto":    BeltBlack,
}

// ParseBeltRank normalizes a belt name into its canonical rank
func ParseBeltRank(value string) (BeltRank, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := beltAliases[v]; ok {
		return alias, nil
	}
	rank := BeltRank(v)
	if _, err := RankIndex(rank); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidBelt, value)
	}
	return rank, nil
}

// RankIndex returns the position of the rank in the ledger
func RankIndex(rank BeltRank) (int, error) {
	for i, r := range BeltLedger {
		if r == rank {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBelt, string(rank))
}

// IsImmediateNext reports whether candidate is exactly one rank above current
func IsImmediateNext(current, candidate BeltRank) (bool, error) {
	ci, err := RankIndex(current)
	if err != nil {
		return false, err
	}
	ni, err := RankIndex(candidate)
	if err != nil {
		return false, err
	}
	return ni == ci+1, nil
}

// NextBelt returns the belt directly above rank. ok is false for black and
// for unknown ranks.
func NextBelt(rank BeltRank) (next BeltRank, ok bool) {
	i, err := RankIndex(rank)
	if err != nil || i+1 >= len(BeltLedger) {
		return "", false
	}
	return BeltLedger[i+1], true
}

// IsValid reports whether the rank is part of the ledger
func (b BeltRank) IsValid() bool {
	_, err := RankIndex(b)
	return err == nil
}

func (b BeltRank) String() string {
	return string(b)
}
