package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/pkg/apperrors"
)

func TestRankIndex(t *testing.T) {
	for i, rank := range BeltLedger {
		got, err := RankIndex(rank)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := RankIndex("pink")
	assert.ErrorIs(t, err, ErrInvalidBelt)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestIsImmediateNext(t *testing.T) {
	tests := []struct {
		name      string
		current   BeltRank
		candidate BeltRank
		want      bool
		wantErr   bool
	}{
		{name: "green to blue", current: BeltGreen, candidate: BeltBlue, want: true},
		{name: "green to purple skips a rank", current: BeltGreen, candidate: BeltPurple},
		{name: "same rank", current: BeltGreen, candidate: BeltGreen},
		{name: "downwards", current: BeltBlue, candidate: BeltGreen},
		{name: "white to yellow", current: BeltWhite, candidate: BeltYellow, want: true},
		{name: "brown to black", current: BeltBrown, candidate: BeltBlack, want: true},
		{name: "unknown current", current: "pink", candidate: BeltWhite, wantErr: true},
		{name: "unknown candidate", current: BeltWhite, candidate: "pink", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsImmediateNext(tt.current, tt.candidate)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBelt)
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextBelt(t *testing.T) {
	next, ok := NextBelt(BeltGreen)
	assert.True(t, ok)
	assert.Equal(t, BeltBlue, next)

	_, ok = NextBelt(BeltBlack)
	assert.False(t, ok)

	_, ok = NextBelt("pink")
	assert.False(t, ok)
}

func TestParseBeltRank(t *testing.T) {
	tests := map[string]BeltRank{
		"white":    BeltWhite,
		" Blue ":   BeltBlue,
		"branco":   BeltWhite,
		"azul":     BeltBlue,
		"laranja":  BeltOrange,
		"castanho": BeltBrown,
		"PRETO":    BeltBlack,
	}
	for in, want := range tests {
		got, err := ParseBeltRank(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBeltRank("rosa")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPortugueseAliasesFollowLedgerOrder(t *testing.T) {
	order := []string{"branco", "amarelo", "laranja", "verde", "azul", "roxo", "castanho", "preto"}
	for i := 1; i < len(order); i++ {
		prev, err := ParseBeltRank(order[i-1])
		require.NoError(t, err)
		cur, err := ParseBeltRank(order[i])
		require.NoError(t, err)

		ok, err := IsImmediateNext(prev, cur)
		require.NoError(t, err)
		assert.True(t, ok, "%s -> %s", order[i-1], order[i])
	}
}
