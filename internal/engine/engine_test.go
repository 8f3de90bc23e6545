package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexsokolov87/creditspin/internal/domain"
)

// scriptedSource replays a fixed sequence of draws.
type scriptedSource struct {
	draws []int64
	pos   int
}

func (s *scriptedSource) Intn(max int64) (int64, error) {
	draw := s.draws[s.pos%len(s.draws)]
	s.pos++
	return draw % max, nil
}

// drawFor returns a draw value that selects the given symbol.
func drawFor(symbol string) int64 {
	var cumulative int64
	for _, ws := range reelWeights {
		if ws.symbol == symbol {
			return cumulative
		}
		cumulative += ws.weight
	}
	return -1
}

func TestSpin_RejectsInvalidBet(t *testing.T) {
	e := New(&scriptedSource{draws: []int64{0}})

	tests := []struct {
		name string
		bet  int64
	}{
		{"zero bet", 0},
		{"negative bet", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := e.Spin(tt.bet)
			assert.ErrorIs(t, err, domain.ErrInvalidBet)
			assert.Nil(t, outcome)
		})
	}
}

func TestSpin_Jackpot(t *testing.T) {
	e := New(&scriptedSource{draws: []int64{drawFor(SymbolSeven)}})

	outcome, err := e.Spin(10)
	assert.NoError(t, err)
	assert.Equal(t, [3]string{SymbolSeven, SymbolSeven, SymbolSeven}, outcome.Reels)
	assert.True(t, outcome.IsJackpot)
	assert.Equal(t, int64(JackpotMultiplier), outcome.Multiplier)
	assert.Equal(t, int64(JackpotMultiplier*10), outcome.WinAmount)
	assert.NotEmpty(t, outcome.SpinID)
}

func TestSpin_PayoutResolution(t *testing.T) {
	tests := []struct {
		name       string
		draws      []int64
		multiplier int64
		jackpot    bool
	}{
		{
			name:       "three cherries",
			draws:      []int64{drawFor(SymbolCherry)},
			multiplier: 2,
		},
		{
			name:       "three bells",
			draws:      []int64{drawFor(SymbolBell)},
			multiplier: 10,
		},
		{
			name:       "first two diamonds pay pair rate",
			draws:      []int64{drawFor(SymbolDiamond), drawFor(SymbolDiamond), drawFor(SymbolCherry)},
			multiplier: 5,
		},
		{
			name:       "second and third matching pays nothing",
			draws:      []int64{drawFor(SymbolCherry), drawFor(SymbolBell), drawFor(SymbolBell)},
			multiplier: 0,
		},
		{
			name:       "no match",
			draws:      []int64{drawFor(SymbolCherry), drawFor(SymbolLemon), drawFor(SymbolOrange)},
			multiplier: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&scriptedSource{draws: tt.draws})
			outcome, err := e.Spin(25)
			assert.NoError(t, err)
			assert.Equal(t, tt.multiplier, outcome.Multiplier)
			assert.Equal(t, tt.multiplier*25, outcome.WinAmount)
			assert.Equal(t, tt.jackpot, outcome.IsJackpot)
		})
	}
}

func TestDrawSymbol_BoundaryMapping(t *testing.T) {
	// Each symbol owns the half-open weight interval that starts at the
	// cumulative weight of the symbols before it.
	var cumulative int64
	for _, ws := range reelWeights {
		e := New(&scriptedSource{draws: []int64{cumulative}})
		symbol, err := e.drawSymbol()
		assert.NoError(t, err)
		assert.Equal(t, ws.symbol, symbol)

		e = New(&scriptedSource{draws: []int64{cumulative + ws.weight - 1}})
		symbol, err = e.drawSymbol()
		assert.NoError(t, err)
		assert.Equal(t, ws.symbol, symbol)

		cumulative += ws.weight
	}
}

func TestDrawSymbol_Fairness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}

	const samples = 1_000_000
	const tolerance = 0.005

	e := New(CryptoSource{})
	counts := make(map[string]int)
	for i := 0; i < samples; i++ {
		symbol, err := e.drawSymbol()
		assert.NoError(t, err)
		counts[symbol]++
	}

	for _, ws := range reelWeights {
		expected := float64(ws.weight) / float64(totalWeight)
		actual := float64(counts[ws.symbol]) / float64(samples)
		assert.LessOrEqual(t, math.Abs(actual-expected), tolerance,
			"symbol %s: expected frequency %.4f, got %.4f", ws.symbol, expected, actual)
	}
}

func TestCryptoSource_Range(t *testing.T) {
	src := CryptoSource{}
	for i := 0; i < 1000; i++ {
		n, err := src.Intn(7)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.Less(t, n, int64(7))
	}
}
