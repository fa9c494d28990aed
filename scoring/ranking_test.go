package scoring

import (
	"testing"

	"sovabet/repository"

	"github.com/stretchr/testify/assert"
)

func TestRankPodium(t *testing.T) {
	performances := []*repository.Performance{
		{TeamId: 3, Result: result(repository.THIRD_PLACE)},
		{TeamId: 1, Result: result(repository.WINNER)},
		{TeamId: 2, Result: result(repository.RUNNER_UP)},
	}

	podium := RankPodium(performances)

	assert.Equal(t, 1, podium.Winner.TeamId)
	assert.Equal(t, WinnerMatched, podium.Winner.Points)
	assert.Equal(t, 2, podium.RunnerUp.TeamId)
	assert.Equal(t, RunnerUpMatched, podium.RunnerUp.Points)
	assert.Equal(t, 3, podium.ThirdPlace.TeamId)
	assert.Equal(t, ThirdPlaceMatched, podium.ThirdPlace.Points)
}

func TestRankPodiumPartialOutcome(t *testing.T) {
	performances := []*repository.Performance{
		{TeamId: 1, Result: result(repository.WINNER)},
		{TeamId: 4, Result: nil},
	}

	podium := RankPodium(performances)

	assert.NotNil(t, podium.Winner)
	assert.Nil(t, podium.RunnerUp)
	assert.Nil(t, podium.ThirdPlace)
}

func TestRankPodiumDuplicateResult(t *testing.T) {
	// two winners recorded: the slot is treated as undecided
	performances := []*repository.Performance{
		{TeamId: 1, Result: result(repository.WINNER)},
		{TeamId: 2, Result: result(repository.WINNER)},
		{TeamId: 3, Result: result(repository.RUNNER_UP)},
	}

	podium := RankPodium(performances)

	assert.Nil(t, podium.Winner)
	assert.Equal(t, 3, podium.RunnerUp.TeamId)
}

func TestRankPodiumEmpty(t *testing.T) {
	podium := RankPodium(nil)

	assert.Nil(t, podium.Winner)
	assert.Nil(t, podium.RunnerUp)
	assert.Nil(t, podium.ThirdPlace)
}

func TestSlotPoints(t *testing.T) {
	assert.Equal(t, WinnerMatched, SlotPoints(repository.WINNER))
	assert.Equal(t, RunnerUpMatched, SlotPoints(repository.RUNNER_UP))
	assert.Equal(t, ThirdPlaceMatched, SlotPoints(repository.THIRD_PLACE))
}
