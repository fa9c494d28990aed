package scoring

import (
	"sovabet/repository"
)

// Point values for the fixed podium scoring model.
const (
	WinnerMatched     float64 = 4
	RunnerUpMatched   float64 = 3
	ThirdPlaceMatched float64 = 3
	TeamWasAwarded    float64 = 2
	NoMatches         float64 = 0
)

func SlotPoints(result repository.Result) float64 {
	switch result {
	case repository.WINNER:
		return WinnerMatched
	case repository.RUNNER_UP:
		return RunnerUpMatched
	case repository.THIRD_PLACE:
		return ThirdPlaceMatched
	default:
		return NoMatches
	}
}

// PodiumSlot pairs a placed team with the points an exact guess on it
// is worth.
type PodiumSlot struct {
	Result repository.Result
	TeamId int
	Points float64
}

// PodiumRanking is the recorded outcome of a game. A nil slot means the
// outcome for that position has not been entered yet, which is a normal
// state for a pending game.
type PodiumRanking struct {
	Winner     *PodiumSlot
	RunnerUp   *PodiumSlot
	ThirdPlace *PodiumSlot
}

// Slots returns the ranking in podium order, nil entries included.
func (r PodiumRanking) Slots() []*PodiumSlot {
	return []*PodiumSlot{r.Winner, r.RunnerUp, r.ThirdPlace}
}

// RankPodium derives the podium from a game's performances. Performances
// without a result are ignored. If more than one performance claims the
// same result the data is inconsistent and the slot is treated as empty
// rather than picking one arbitrarily.
func RankPodium(performances []*repository.Performance) PodiumRanking {
	byResult := make(map[repository.Result][]*repository.Performance)
	for _, performance := range performances {
		if performance.Result == nil {
			continue
		}
		byResult[*performance.Result] = append(byResult[*performance.Result], performance)
	}

	ranking := PodiumRanking{}
	for _, result := range repository.Results() {
		matched := byResult[result]
		if len(matched) != 1 {
			continue
		}
		slot := &PodiumSlot{
			Result: result,
			TeamId: matched[0].TeamId,
			Points: SlotPoints(result),
		}
		switch result {
		case repository.WINNER:
			ranking.Winner = slot
		case repository.RUNNER_UP:
			ranking.RunnerUp = slot
		case repository.THIRD_PLACE:
			ranking.ThirdPlace = slot
		}
	}
	return ranking
}
