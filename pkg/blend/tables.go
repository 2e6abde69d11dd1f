package blend

import "github.com/taigrr/sector/pkg/fixed"

// AlphaLevels is the number of distinct blend weights; an alpha in
// [0, fixed.One] selects level alpha>>10.
const AlphaLevels = 65

// Weights scales a channel value by one alpha level: w[c] = c*level/64.
type Weights [256]uint32

var weightTables [AlphaLevels]Weights

func init() {
	for level := range AlphaLevels {
		for c := range 256 {
			weightTables[level][c] = uint32(c*level) >> 6
		}
	}
}

// AlphaLevel maps a fixed-point alpha to its weight table index.
func AlphaLevel(alpha fixed.Fixed) int {
	switch {
	case alpha <= 0:
		return 0
	case alpha >= fixed.One:
		return AlphaLevels - 1
	}
	return int(alpha >> 10)
}

// WeightTable returns the weight table for a fixed-point alpha.
func WeightTable(alpha fixed.Fixed) *Weights {
	return &weightTables[AlphaLevel(alpha)]
}

// LevelWeights returns the weight table of an alpha level in
// [0, AlphaLevels-1]; out-of-range levels are clamped.
func LevelWeights(level int) *Weights {
	return &weightTables[max(0, min(level, AlphaLevels-1))]
}
