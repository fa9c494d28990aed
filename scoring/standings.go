package scoring

import (
	"sort"
	"strings"

	"sovabet/repository"
)

// CompareRows orders two standings rows: total points descending, then
// prediction count ascending (fewer predictions with the same score
// ranks higher), then winners, runners-up, third places and prize
// winners descending, and finally predictor name ascending. The name
// makes the order total for distinct predictors.
func CompareRows(a *repository.StandingsRow, b *repository.StandingsRow) int {
	if a.TotalPoints != b.TotalPoints {
		if a.TotalPoints > b.TotalPoints {
			return -1
		}
		return 1
	}
	if a.PredictionCount != b.PredictionCount {
		if a.PredictionCount < b.PredictionCount {
			return -1
		}
		return 1
	}
	if a.Winners != b.Winners {
		if a.Winners > b.Winners {
			return -1
		}
		return 1
	}
	if a.RunnersUp != b.RunnersUp {
		if a.RunnersUp > b.RunnersUp {
			return -1
		}
		return 1
	}
	if a.ThirdPlaces != b.ThirdPlaces {
		if a.ThirdPlaces > b.ThirdPlaces {
			return -1
		}
		return 1
	}
	if a.PrizeWinners != b.PrizeWinners {
		if a.PrizeWinners > b.PrizeWinners {
			return -1
		}
		return 1
	}
	return strings.Compare(a.PredictorName, b.PredictorName)
}

// SortStandings sorts rows into leaderboard order.
func SortStandings(rows []*repository.StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return CompareRows(rows[i], rows[j]) < 0
	})
}
