package models

import (
	"fmt"
	"math"
)

// RouletteType identifies one of the two independent reward pools
type RouletteType string

const (
	RouletteTypeDaily   RouletteType = "daily"
	RouletteTypePremium RouletteType = "premium"
)

// ParseRouletteType validates a raw type selector from the transport layer
func ParseRouletteType(raw string) (RouletteType, error) {
	switch RouletteType(raw) {
	case RouletteTypeDaily:
		return RouletteTypeDaily, nil
	case RouletteTypePremium:
		return RouletteTypePremium, nil
	default:
		return "", fmt.Errorf("unknown roulette type %q", raw)
	}
}

// PrizeDefinition is one weighted outcome in a prize table.
// Minutes == nil marks the lifetime grant; 0 marks the "nothing" outcome.
type PrizeDefinition struct {
	ID          string
	Label       string
	Probability float64
	Minutes     *int
}

// IsLifetime reports whether winning this prize grants permanent premium.
func (p PrizeDefinition) IsLifetime() bool {
	return p.Minutes == nil
}

// probabilityTolerance is the floating tolerance for the per-table weight sum.
const probabilityTolerance = 1e-6

func minutes(m int) *int { return &m }

// Fixed prize tables, in declared draw order. The order matters: the selector
// walks cumulative probability mass in this order.
var (
	dailyPrizes = []PrizeDefinition{
		{ID: "daily_nothing", Label: "Nothing", Probability: 0.60, Minutes: minutes(0)},
		{ID: "daily_10min", Label: "10 minutes premium", Probability: 0.25, Minutes: minutes(10)},
		{ID: "daily_30min", Label: "30 minutes premium", Probability: 0.10, Minutes: minutes(30)},
		{ID: "daily_1day", Label: "1 day premium", Probability: 0.05, Minutes: minutes(1440)},
	}

	premiumPrizes = []PrizeDefinition{
		{ID: "premium_1week", Label: "1 week premium", Probability: 0.35, Minutes: minutes(10080)},
		{ID: "premium_3days", Label: "+3 days premium", Probability: 0.30, Minutes: minutes(4320)},
		{ID: "premium_7days", Label: "+7 days premium", Probability: 0.24, Minutes: minutes(10080)},
		{ID: "premium_1month", Label: "1 month premium", Probability: 0.10, Minutes: minutes(43200)},
		{ID: "premium_lifetime", Label: "Lifetime premium", Probability: 0.01, Minutes: nil},
	}
)

// PrizeTableFor returns the prize table for the given roulette type.
// The returned slice is shared; callers must not mutate it.
func PrizeTableFor(rouletteType RouletteType) ([]PrizeDefinition, error) {
	switch rouletteType {
	case RouletteTypeDaily:
		return dailyPrizes, nil
	case RouletteTypePremium:
		return premiumPrizes, nil
	default:
		return nil, fmt.Errorf("unknown roulette type %q", rouletteType)
	}
}

// FindPrize looks up a prize by ID within the given roulette type's table.
func FindPrize(rouletteType RouletteType, prizeID string) (PrizeDefinition, bool) {
	table, err := PrizeTableFor(rouletteType)
	if err != nil {
		return PrizeDefinition{}, false
	}
	for _, prize := range table {
		if prize.ID == prizeID {
			return prize, true
		}
	}
	return PrizeDefinition{}, false
}

// ValidatePrizeTables checks that each table's probabilities sum to 1.0 within
// tolerance. Called once at startup so a bad edit fails fast.
func ValidatePrizeTables() error {
	for _, rouletteType := range []RouletteType{RouletteTypeDaily, RouletteTypePremium} {
		table, err := PrizeTableFor(rouletteType)
		if err != nil {
			return err
		}
		var sum float64
		for _, prize := range table {
			if prize.Probability <= 0 || prize.Probability > 1 {
				return fmt.Errorf("prize %s: probability %f out of range (0,1]", prize.ID, prize.Probability)
			}
			sum += prize.Probability
		}
		if math.Abs(sum-1.0) > probabilityTolerance {
			return fmt.Errorf("prize table %s: probabilities sum to %f, want 1.0", rouletteType, sum)
		}
	}
	return nil
}
