package service

import (
	"fmt"
	"math/rand"

	"roulette/models"
)

// systemRand draws from the shared math/rand source, which is safe for
// concurrent use.
type systemRand struct{}

func (systemRand) Float64() float64 {
	return rand.Float64()
}

// WeightedSelector draws one prize from a table according to its weights
type WeightedSelector struct {
	rng RandSource
}

// NewWeightedSelector creates a selector using the given randomness source.
// Pass nil to use the process-wide math/rand source.
func NewWeightedSelector(rng RandSource) *WeightedSelector {
	if rng == nil {
		rng = systemRand{}
	}
	return &WeightedSelector{rng: rng}
}

// Draw picks a prize by walking the table in declared order, accumulating
// probability mass until it covers a uniform draw in [0,1). If floating drift
// leaves the cumulative sum slightly under 1.0 and the draw lands in the gap,
// the last entry is returned rather than failing.
func (s *WeightedSelector) Draw(table []models.PrizeDefinition) (models.PrizeDefinition, error) {
	if len(table) == 0 {
		return models.PrizeDefinition{}, fmt.Errorf("prize table is empty")
	}

	r := s.rng.Float64()
	var cumulative float64
	for _, prize := range table {
		cumulative += prize.Probability
		if cumulative >= r {
			return prize, nil
		}
	}

	return table[len(table)-1], nil
}
