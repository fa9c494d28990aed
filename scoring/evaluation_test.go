package scoring

import (
	"testing"

	"sovabet/repository"

	"github.com/stretchr/testify/assert"
)

func result(r repository.Result) *repository.Result {
	return &r
}

func ranking(winner int, runnerUp int, thirdPlace int) PodiumRanking {
	performances := make([]*repository.Performance, 0)
	if winner != 0 {
		performances = append(performances, &repository.Performance{TeamId: winner, Result: result(repository.WINNER)})
	}
	if runnerUp != 0 {
		performances = append(performances, &repository.Performance{TeamId: runnerUp, Result: result(repository.RUNNER_UP)})
	}
	if thirdPlace != 0 {
		performances = append(performances, &repository.Performance{TeamId: thirdPlace, Result: result(repository.THIRD_PLACE)})
	}
	return RankPodium(performances)
}

func events(guesses map[repository.Result]int) []*repository.PredictionEvent {
	eventList := make([]*repository.PredictionEvent, 0)
	for _, r := range repository.Results() {
		if teamId, ok := guesses[r]; ok {
			eventList = append(eventList, &repository.PredictionEvent{TeamId: teamId, Result: r})
		}
	}
	return eventList
}

func TestEvaluatePredictionPartialHit(t *testing.T) {
	// winner=1, runner-up=2, third place not recorded yet
	podium := ranking(1, 2, 0)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:      1,
		repository.RUNNER_UP:   3,
		repository.THIRD_PLACE: 2,
	})

	EvaluatePrediction(prediction, eventList, podium)

	assert.Equal(t, WinnerMatched, eventList[0].Points)
	assert.Equal(t, NoMatches, eventList[1].Points)
	assert.Equal(t, TeamWasAwarded, eventList[2].Points)
	assert.Equal(t, 6.0, prediction.TotalPoints)
	assert.Equal(t, 1, prediction.Winners)
	assert.Equal(t, 0, prediction.RunnersUp)
	assert.Equal(t, 0, prediction.ThirdPlaces)
	assert.Equal(t, 1, prediction.PrizeWinners)
}

func TestEvaluatePredictionAllExact(t *testing.T) {
	podium := ranking(1, 2, 3)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:      1,
		repository.RUNNER_UP:   2,
		repository.THIRD_PLACE: 3,
	})

	EvaluatePrediction(prediction, eventList, podium)

	assert.Equal(t, 10.0, prediction.TotalPoints)
	assert.Equal(t, 1, prediction.Winners)
	assert.Equal(t, 1, prediction.RunnersUp)
	assert.Equal(t, 1, prediction.ThirdPlaces)
	assert.Equal(t, 0, prediction.PrizeWinners)
}

func TestEvaluatePredictionNoOutcome(t *testing.T) {
	podium := ranking(0, 0, 0)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:    1,
		repository.RUNNER_UP: 2,
	})

	EvaluatePrediction(prediction, eventList, podium)

	assert.Equal(t, 0.0, prediction.TotalPoints)
	for _, event := range eventList {
		assert.Equal(t, NoMatches, event.Points)
	}
}

func TestEvaluatePredictionNoEvents(t *testing.T) {
	podium := ranking(1, 2, 3)
	prediction := &repository.Prediction{}

	EvaluatePrediction(prediction, nil, podium)

	assert.Equal(t, 0.0, prediction.TotalPoints)
	assert.Equal(t, 0, prediction.Winners)
	assert.Equal(t, 0, prediction.PrizeWinners)
}

func TestEvaluatePredictionNoDoubleCredit(t *testing.T) {
	// team 5 won, but is guessed for both runner-up and third place:
	// only the first event in podium order gets the consolation points
	podium := ranking(5, 0, 0)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.RUNNER_UP:   5,
		repository.THIRD_PLACE: 5,
	})

	EvaluatePrediction(prediction, eventList, podium)

	assert.Equal(t, TeamWasAwarded, eventList[0].Points)
	assert.Equal(t, NoMatches, eventList[1].Points)
	assert.Equal(t, TeamWasAwarded, prediction.TotalPoints)
	assert.Equal(t, 1, prediction.PrizeWinners)
}

func TestEvaluatePredictionIdempotent(t *testing.T) {
	podium := ranking(1, 2, 3)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:      2,
		repository.RUNNER_UP:   1,
		repository.THIRD_PLACE: 3,
	})

	EvaluatePrediction(prediction, eventList, podium)
	firstPrediction := *prediction
	firstPoints := []float64{eventList[0].Points, eventList[1].Points, eventList[2].Points}

	EvaluatePrediction(prediction, eventList, podium)

	assert.Equal(t, firstPrediction, *prediction)
	for i, event := range eventList {
		assert.Equal(t, firstPoints[i], event.Points)
	}
}

func TestEvaluatePredictionTotalMatchesEventSum(t *testing.T) {
	podium := ranking(1, 2, 3)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:      3,
		repository.RUNNER_UP:   2,
		repository.THIRD_PLACE: 1,
	})

	EvaluatePrediction(prediction, eventList, podium)

	sum := 0.0
	for _, event := range eventList {
		sum += event.Points
	}
	assert.Equal(t, sum, prediction.TotalPoints)
}

func TestResetPrediction(t *testing.T) {
	podium := ranking(1, 2, 3)
	prediction := &repository.Prediction{}
	eventList := events(map[repository.Result]int{
		repository.WINNER:    1,
		repository.RUNNER_UP: 2,
	})
	EvaluatePrediction(prediction, eventList, podium)
	assert.NotEqual(t, 0.0, prediction.TotalPoints)

	ResetPrediction(prediction, eventList)

	assert.Equal(t, 0.0, prediction.TotalPoints)
	assert.Equal(t, 0, prediction.Winners)
	assert.Equal(t, 0, prediction.RunnersUp)
	assert.Equal(t, 0, prediction.ThirdPlaces)
	assert.Equal(t, 0, prediction.PrizeWinners)
	for _, event := range eventList {
		assert.Equal(t, NoMatches, event.Points)
	}
}
