package engine

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/alexsokolov87/creditspin/internal/domain"
)

// Source yields uniformly distributed integers in [0, max). The production
// implementation is crypto-backed; tests substitute a scripted sequence.
type Source interface {
	Intn(max int64) (int64, error)
}

type CryptoSource struct{}

func (CryptoSource) Intn(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return n.Int64(), nil
}

const (
	SymbolCherry  = "cherry"
	SymbolLemon   = "lemon"
	SymbolOrange  = "orange"
	SymbolPlum    = "plum"
	SymbolBell    = "bell"
	SymbolDiamond = "diamond"
	SymbolSeven   = "seven"
)

type weightedSymbol struct {
	symbol string
	weight int64
}

// reelWeights is walked in this exact order when resolving a draw. The order
// is part of the fairness contract: reordering changes which symbol a given
// draw value maps to.
var reelWeights = []weightedSymbol{
	{SymbolCherry, 30},
	{SymbolLemon, 25},
	{SymbolOrange, 20},
	{SymbolPlum, 12},
	{SymbolBell, 7},
	{SymbolDiamond, 4},
	{SymbolSeven, 2},
}

var totalWeight = func() int64 {
	var sum int64
	for _, ws := range reelWeights {
		sum += ws.weight
	}
	return sum
}()

// tripleMultipliers pays exact three-of-a-kind combinations.
var tripleMultipliers = map[string]int64{
	SymbolCherry:  2,
	SymbolLemon:   3,
	SymbolOrange:  4,
	SymbolPlum:    6,
	SymbolBell:    10,
	SymbolDiamond: 25,
	SymbolSeven:   100,
}

// pairMultipliers pays when the first two reels match and no triple landed.
var pairMultipliers = map[string]int64{
	SymbolCherry:  1,
	SymbolLemon:   1,
	SymbolOrange:  2,
	SymbolPlum:    2,
	SymbolBell:    3,
	SymbolDiamond: 5,
	SymbolSeven:   10,
}

// JackpotMultiplier is the payout for three sevens, the rarest symbol.
const JackpotMultiplier = 100

type Engine struct {
	src Source
}

func New(src Source) *Engine {
	return &Engine{src: src}
}

// Spin draws three independent weighted reels and resolves the payout.
// It has no side effects beyond consuming the randomness source.
func (e *Engine) Spin(betAmount int64) (*domain.SpinOutcome, error) {
	if betAmount <= 0 {
		return nil, domain.ErrInvalidBet
	}

	var reels [3]string
	for i := range reels {
		symbol, err := e.drawSymbol()
		if err != nil {
			return nil, err
		}
		reels[i] = symbol
	}

	multiplier := resolveMultiplier(reels)

	return &domain.SpinOutcome{
		SpinID:     uuid.NewString(),
		Reels:      reels,
		Multiplier: multiplier,
		WinAmount:  multiplier * betAmount,
		IsJackpot:  reels[0] == SymbolSeven && reels[1] == SymbolSeven && reels[2] == SymbolSeven,
	}, nil
}

func (e *Engine) drawSymbol() (string, error) {
	draw, err := e.src.Intn(totalWeight)
	if err != nil {
		return "", err
	}

	var cumulative int64
	for _, ws := range reelWeights {
		cumulative += ws.weight
		if draw < cumulative {
			return ws.symbol, nil
		}
	}
	// Unreachable while draw < totalWeight holds.
	return "", fmt.Errorf("draw %d out of range %d", draw, totalWeight)
}

func resolveMultiplier(reels [3]string) int64 {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return tripleMultipliers[reels[0]]
	}
	if reels[0] == reels[1] {
		return pairMultipliers[reels[0]]
	}
	return 0
}

// Weight reports the configured weight of a symbol, for fairness checks.
func Weight(symbol string) int64 {
	for _, ws := range reelWeights {
		if ws.symbol == symbol {
			return ws.weight
		}
	}
	return 0
}

// TotalWeight reports the sum of all symbol weights.
func TotalWeight() int64 {
	return totalWeight
}
