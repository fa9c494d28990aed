package scoring

import (
	"sort"

	"sovabet/repository"
)

// EvaluatePrediction scores one prediction against a podium ranking,
// in memory. All derived fields are reset first and recomputed from
// scratch, so re-running it against the same ranking is a no-op.
//
// For every non-empty slot: an event that guessed the slot's team in the
// slot's position gets the slot's full points and bumps the matching hit
// counter. Otherwise the first event that guessed the placed team in any
// position gets the consolation points and bumps prize_winners. Events
// are processed in podium order, so a team guessed twice is credited at
// most once per prediction.
func EvaluatePrediction(prediction *repository.Prediction, events []*repository.PredictionEvent, ranking PodiumRanking) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Result.Rank() < events[j].Result.Rank()
	})

	for _, event := range events {
		event.Points = NoMatches
	}
	prediction.Winners = 0
	prediction.RunnersUp = 0
	prediction.ThirdPlaces = 0
	prediction.PrizeWinners = 0

	for _, slot := range ranking.Slots() {
		if slot == nil {
			continue
		}
		var fullHit *repository.PredictionEvent
		for _, event := range events {
			if event.Result == slot.Result && event.TeamId == slot.TeamId {
				fullHit = event
				break
			}
		}
		if fullHit != nil {
			fullHit.Points = slot.Points
			switch slot.Result {
			case repository.WINNER:
				prediction.Winners++
			case repository.RUNNER_UP:
				prediction.RunnersUp++
			case repository.THIRD_PLACE:
				prediction.ThirdPlaces++
			}
			continue
		}
		for _, event := range events {
			if event.TeamId == slot.TeamId {
				event.Points = TeamWasAwarded
				prediction.PrizeWinners++
				break
			}
		}
	}

	// The cached total is always the sum of the event points, never
	// accumulated separately.
	prediction.TotalPoints = 0
	for _, event := range events {
		prediction.TotalPoints += event.Points
	}
}

// ResetPrediction clears all derived fields without consulting outcomes.
func ResetPrediction(prediction *repository.Prediction, events []*repository.PredictionEvent) {
	for _, event := range events {
		event.Points = NoMatches
	}
	prediction.TotalPoints = 0
	prediction.Winners = 0
	prediction.RunnersUp = 0
	prediction.ThirdPlaces = 0
	prediction.PrizeWinners = 0
}
