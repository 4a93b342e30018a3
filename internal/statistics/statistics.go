// Package statistics aggregates simulation results: per-round net outcomes
// in bet units, with the distribution summaries needed to estimate the edge
// of a strategy empirically.
package statistics

import (
	"math"
	"sort"
)

// RoundResult represents the outcome of a single simulated blackjack round
type RoundResult struct {
	NetUnits    float64 // Net win/loss for the round, in units of the base bet
	Seed        int64   // RNG seed for the simulation run (for replay)
	Blackjack   bool    // Player was dealt a natural
	Busted      bool    // At least one player hand busted
	Doubled     bool    // At least one hand doubled down
	Surrendered bool    // At least one hand surrendered
	Splits      int     // Number of splits performed
}

// Statistics tracks aggregate results across simulated rounds
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // All values, for median/percentile calculation

	Blackjacks  int
	Busts       int
	Doubles     int
	Splits      int
	Surrenders  int
	WinRounds   int
	LossRounds  int
	PushRounds  int
	UnitsStaked float64 // Total units wagered including doubles and splits
}

// Add incorporates a round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.NetUnits
	s.Rounds++
	s.SumUnits += net
	s.SumUnits2 += net * net
	s.Values = append(s.Values, net)

	staked := 1.0 + float64(result.Splits)
	if result.Doubled {
		staked++
	}
	s.UnitsStaked += staked

	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Busted {
		s.Busts++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Surrendered {
		s.Surrenders++
	}
	s.Splits += result.Splits

	switch {
	case net > 0:
		s.WinRounds++
	case net < 0:
		s.LossRounds++
	default:
		s.PushRounds++
	}
}

// Mean returns the arithmetic mean result in bet units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// EdgePercent returns the house edge implied by the results, as a percentage
// of the base bet. Positive means the house wins.
func (s *Statistics) EdgePercent() float64 {
	return -s.Mean() * 100
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
