package rating

import (
	"math"

	"github.com/llmshowdown/connect-arena-backend/internal/entity"
)

const (
	// DefaultKFactor determines how much ratings change after each game.
	DefaultKFactor = 32.0
	// DefaultRating is the starting rating for a first-seen agent.
	DefaultRating = 1000.0
)

// Calculator accumulates ELO ratings over a sequence of outcomes. It keeps no
// state between ComputeRatings calls; ratings are always replayed from scratch.
type Calculator struct {
	kFactor       float64
	defaultRating float64
	ratings       map[string]float64
}

func NewCalculator() *Calculator {
	return &Calculator{
		kFactor:       DefaultKFactor,
		defaultRating: DefaultRating,
		ratings:       make(map[string]float64),
	}
}

// Rating returns an agent's current rating, or the default for a new agent.
func (that *Calculator) Rating(agent string) float64 {
	if rating, ok := that.ratings[agent]; ok {
		return rating
	}
	return that.defaultRating
}

// Expected returns the win probability of A against B under the logistic
// ELO model: 1 / (1 + 10^((ratingB - ratingA)/400)).
func (that *Calculator) Expected(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// Update applies one game outcome. Both new ratings are computed from the
// pre-update ratings, so the update is simultaneous, not sequential.
func (that *Calculator) Update(agentA, agentB string, scoreA, scoreB float64) {
	ratingA := that.Rating(agentA)
	ratingB := that.Rating(agentB)

	expectedA := that.Expected(ratingA, ratingB)
	expectedB := 1 - expectedA

	that.ratings[agentA] = ratingA + that.kFactor*(scoreA-expectedA)
	that.ratings[agentB] = ratingB + that.kFactor*(scoreB-expectedB)
}

// Ratings returns the accumulated rating per agent.
func (that *Calculator) Ratings() map[string]float64 {
	return that.ratings
}

// ComputeRatings replays the given results in slice order and returns the
// final rating per agent. Callers must pass results chronologically ordered;
// the store returns them that way and no re-sort happens here. Red win scores
// (1, 0); yellow win (0, 1); anything else, including the anomalous both-won
// case, is a draw (0.5, 0.5).
func ComputeRatings(results []entity.Result, excludeSelfPlay bool) map[string]float64 {
	calculator := NewCalculator()

	for _, result := range results {
		if excludeSelfPlay && result.IsSelfPlay() {
			continue
		}

		var redScore, yellowScore float64
		switch {
		case result.RedWon && !result.YellowWon:
			redScore, yellowScore = 1.0, 0.0
		case result.YellowWon && !result.RedWon:
			redScore, yellowScore = 0.0, 1.0
		default:
			redScore, yellowScore = 0.5, 0.5
		}

		calculator.Update(result.RedAgent, result.YellowAgent, redScore, yellowScore)
	}

	return calculator.Ratings()
}
