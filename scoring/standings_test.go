package scoring

import (
	"testing"

	"sovabet/repository"

	"github.com/stretchr/testify/assert"
)

func row(name string, count int, points float64, winners int, runnersUp int, thirdPlaces int, prizeWinners int) *repository.StandingsRow {
	return &repository.StandingsRow{
		PredictorName:   name,
		PredictionCount: count,
		TotalPoints:     points,
		Winners:         winners,
		RunnersUp:       runnersUp,
		ThirdPlaces:     thirdPlaces,
		PrizeWinners:    prizeWinners,
	}
}

func TestCompareRows(t *testing.T) {
	testCases := []struct {
		name   string
		better *repository.StandingsRow
		worse  *repository.StandingsRow
	}{
		{"more points wins", row("a", 5, 10, 0, 0, 0, 0), row("b", 5, 9, 9, 9, 9, 9)},
		{"fewer predictions break point ties", row("a", 3, 10, 0, 0, 0, 0), row("b", 4, 10, 9, 9, 9, 9)},
		{"more winners break count ties", row("a", 3, 10, 2, 0, 0, 0), row("b", 3, 10, 1, 9, 9, 9)},
		{"more runners-up break winner ties", row("a", 3, 10, 2, 2, 0, 0), row("b", 3, 10, 2, 1, 9, 9)},
		{"more third places break runner-up ties", row("a", 3, 10, 2, 2, 2, 0), row("b", 3, 10, 2, 2, 1, 9)},
		{"more prize winners break third-place ties", row("a", 3, 10, 2, 2, 2, 2), row("b", 3, 10, 2, 2, 2, 1)},
		{"name breaks full ties", row("anna", 3, 10, 2, 2, 2, 2), row("boris", 3, 10, 2, 2, 2, 2)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Negative(t, CompareRows(testCase.better, testCase.worse))
			assert.Positive(t, CompareRows(testCase.worse, testCase.better))
		})
	}
}

func TestCompareRowsEqual(t *testing.T) {
	a := row("anna", 3, 10, 2, 2, 2, 2)
	b := row("anna", 3, 10, 2, 2, 2, 2)
	assert.Zero(t, CompareRows(a, b))
}

func TestSortStandings(t *testing.T) {
	rows := []*repository.StandingsRow{
		row("carol", 2, 6, 1, 0, 1, 0),
		row("anna", 2, 8, 2, 0, 0, 0),
		row("boris", 2, 8, 2, 0, 0, 0),
		row("dora", 1, 8, 1, 1, 0, 0),
	}

	SortStandings(rows)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.PredictorName)
	}
	assert.Equal(t, []string{"dora", "anna", "boris", "carol"}, names)
}
