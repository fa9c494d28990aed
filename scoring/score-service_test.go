package scoring

import (
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"sovabet/repository"

	"gorm.io/driver/postgres"
	_ "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
)

var db *gorm.DB
var enumQueries = []string{
	`CREATE TYPE sovabet.result AS ENUM ('WINNER', 'RUNNER_UP', 'THIRD_PLACE')`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=sovabet",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "sovabet.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})

		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS sovabet`)
		for _, query := range enumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		return db.AutoMigrate(
			&repository.Season{},
			&repository.Tournament{},
			&repository.Team{},
			&repository.Game{},
			&repository.Performance{},
			&repository.Predictor{},
			&repository.Prediction{},
			&repository.PredictionEvent{},
			&repository.RawPrediction{},
		)

	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	// as of go1.15 testing.M returns the exit code of m.Run(), so it is safe to use defer here
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}

	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM sovabet.prediction_events")
	db.Exec("DELETE FROM sovabet.predictions")
	db.Exec("DELETE FROM sovabet.performances")
	db.Exec("DELETE FROM sovabet.raw_predictions")
	db.Exec("DELETE FROM sovabet.games")
	db.Exec("DELETE FROM sovabet.tournaments")
	db.Exec("DELETE FROM sovabet.seasons")
	db.Exec("DELETE FROM sovabet.predictors")
	db.Exec("DELETE FROM sovabet.teams")
}

type fixture struct {
	season     *repository.Season
	tournament *repository.Tournament
	game1      *repository.Game
	game2      *repository.Game
	alpha      *repository.Team
	beta       *repository.Team
	gamma      *repository.Team
	anna       *repository.Predictor
	boris      *repository.Predictor
}

func SetUp() *fixture {
	f := &fixture{}
	now := time.Now()
	f.season = &repository.Season{
		Name:      "season1",
		StartedAt: now,
		IsActive:  true,
		Tournaments: []*repository.Tournament{
			{
				Name:      "tournament1",
				StartedAt: now,
				IsActive:  true,
				Games: []*repository.Game{
					{Name: "game1", StartedAt: now, IsActive: true},
					{Name: "game2", StartedAt: now, IsActive: true},
				},
			},
		},
	}
	if err := db.Create(f.season).Error; err != nil {
		log.Fatalf("Error creating season: %v", err)
	}
	f.tournament = f.season.Tournaments[0]
	f.game1 = f.tournament.Games[0]
	f.game2 = f.tournament.Games[1]

	f.alpha = &repository.Team{Name: "alpha", IsActive: true}
	f.beta = &repository.Team{Name: "beta", IsActive: true}
	f.gamma = &repository.Team{Name: "gamma", IsActive: true}
	for _, team := range []*repository.Team{f.alpha, f.beta, f.gamma} {
		if err := db.Create(team).Error; err != nil {
			log.Fatalf("Error creating team: %v", err)
		}
	}

	f.anna = &repository.Predictor{Name: "anna", IsActive: true}
	f.boris = &repository.Predictor{Name: "boris", IsActive: true}
	for _, predictor := range []*repository.Predictor{f.anna, f.boris} {
		if err := db.Create(predictor).Error; err != nil {
			log.Fatalf("Error creating predictor: %v", err)
		}
	}
	return f
}

func (f *fixture) recordOutcome(game *repository.Game) {
	performances := []*repository.Performance{
		{GameId: game.Id, TeamId: f.alpha.Id, Result: result(repository.WINNER)},
		{GameId: game.Id, TeamId: f.beta.Id, Result: result(repository.RUNNER_UP)},
		{GameId: game.Id, TeamId: f.gamma.Id, Result: result(repository.THIRD_PLACE)},
	}
	if err := db.Create(performances).Error; err != nil {
		log.Fatalf("Error creating performances: %v", err)
	}
}

func (f *fixture) predict(predictor *repository.Predictor, game *repository.Game, isActive bool, winner *repository.Team, runnerUp *repository.Team, thirdPlace *repository.Team) *repository.Prediction {
	prediction := &repository.Prediction{
		PredictorId: predictor.Id,
		GameId:      game.Id,
		SubmittedAt: time.Now(),
		IsActive:    isActive,
		Events: []*repository.PredictionEvent{
			{TeamId: winner.Id, Result: repository.WINNER},
			{TeamId: runnerUp.Id, Result: repository.RUNNER_UP},
			{TeamId: thirdPlace.Id, Result: repository.THIRD_PLACE},
		},
	}
	if err := db.Create(prediction).Error; err != nil {
		log.Fatalf("Error creating prediction: %v", err)
	}
	return prediction
}

func reload(t *testing.T, predictionId int) *repository.Prediction {
	prediction, err := repository.NewPredictionRepository(db).GetPredictionById(predictionId)
	assert.Nil(t, err)
	return prediction
}

func TestScoreGame(t *testing.T) {
	f := SetUp()
	defer TearDown()
	f.recordOutcome(f.game1)
	exact := f.predict(f.anna, f.game1, true, f.alpha, f.beta, f.gamma)
	// winner and runner-up swapped, third place exact
	swapped := f.predict(f.boris, f.game1, true, f.beta, f.alpha, f.gamma)

	scoreService := NewScoreService(db)
	err := scoreService.ScoreGame(f.game1.Id)
	assert.Nil(t, err)

	scored := reload(t, exact.Id)
	assert.Equal(t, 10.0, scored.TotalPoints)
	assert.Equal(t, 1, scored.Winners)
	assert.Equal(t, 1, scored.RunnersUp)
	assert.Equal(t, 1, scored.ThirdPlaces)
	assert.Equal(t, 0, scored.PrizeWinners)

	scored = reload(t, swapped.Id)
	assert.Equal(t, 7.0, scored.TotalPoints)
	assert.Equal(t, 0, scored.Winners)
	assert.Equal(t, 0, scored.RunnersUp)
	assert.Equal(t, 1, scored.ThirdPlaces)
	assert.Equal(t, 2, scored.PrizeWinners)
}

func TestScoreGameIsIdempotent(t *testing.T) {
	f := SetUp()
	defer TearDown()
	f.recordOutcome(f.game1)
	prediction := f.predict(f.anna, f.game1, true, f.beta, f.alpha, f.gamma)

	scoreService := NewScoreService(db)
	assert.Nil(t, scoreService.ScoreGame(f.game1.Id))
	first := reload(t, prediction.Id)
	assert.Nil(t, scoreService.ScoreGame(f.game1.Id))
	second := reload(t, prediction.Id)

	assert.Equal(t, first.TotalPoints, second.TotalPoints)
	assert.Equal(t, first.Winners, second.Winners)
	assert.Equal(t, first.PrizeWinners, second.PrizeWinners)
	firstPoints := make(map[int]float64)
	for _, event := range first.Events {
		firstPoints[event.Id] = event.Points
	}
	for _, event := range second.Events {
		assert.Equal(t, firstPoints[event.Id], event.Points)
	}
}

func TestScoreGameWithoutOutcome(t *testing.T) {
	f := SetUp()
	defer TearDown()
	prediction := f.predict(f.anna, f.game2, true, f.alpha, f.beta, f.gamma)

	scoreService := NewScoreService(db)
	assert.Nil(t, scoreService.ScoreGame(f.game2.Id))

	scored := reload(t, prediction.Id)
	assert.Equal(t, 0.0, scored.TotalPoints)
	for _, event := range scored.Events {
		assert.Equal(t, NoMatches, event.Points)
	}
}

func TestResetGame(t *testing.T) {
	f := SetUp()
	defer TearDown()
	f.recordOutcome(f.game1)
	prediction := f.predict(f.anna, f.game1, true, f.alpha, f.beta, f.gamma)

	scoreService := NewScoreService(db)
	assert.Nil(t, scoreService.ScoreGame(f.game1.Id))
	assert.Equal(t, 10.0, reload(t, prediction.Id).TotalPoints)

	assert.Nil(t, scoreService.ResetGame(f.game1.Id))

	scored := reload(t, prediction.Id)
	assert.Equal(t, 0.0, scored.TotalPoints)
	assert.Equal(t, 0, scored.Winners)
	assert.Equal(t, 0, scored.ThirdPlaces)
	for _, event := range scored.Events {
		assert.Equal(t, 0.0, event.Points)
	}
}

func TestStandingsForSeason(t *testing.T) {
	f := SetUp()
	defer TearDown()
	f.recordOutcome(f.game1)
	f.predict(f.anna, f.game1, true, f.alpha, f.beta, f.gamma)
	f.predict(f.boris, f.game1, true, f.beta, f.alpha, f.gamma)
	// boris also predicted the game that has no outcome yet
	f.predict(f.boris, f.game2, true, f.alpha, f.beta, f.gamma)
	// a withdrawn prediction must not show up in the aggregates
	f.predict(f.anna, f.game2, false, f.gamma, f.beta, f.alpha)

	scoreService := NewScoreService(db)
	assert.Nil(t, scoreService.ScoreSeason(f.season.Id))

	rows, err := scoreService.StandingsForSeason(f.season.Id)
	assert.Nil(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "anna", rows[0].PredictorName)
	assert.Equal(t, 1, rows[0].PredictionCount)
	assert.Equal(t, 10.0, rows[0].TotalPoints)
	assert.Equal(t, 1, rows[0].Winners)

	assert.Equal(t, "boris", rows[1].PredictorName)
	assert.Equal(t, 2, rows[1].PredictionCount)
	assert.Equal(t, 7.0, rows[1].TotalPoints)
	assert.Equal(t, 2, rows[1].PrizeWinners)
}

func TestStandingsForGame(t *testing.T) {
	f := SetUp()
	defer TearDown()
	f.recordOutcome(f.game1)
	f.predict(f.anna, f.game1, true, f.beta, f.alpha, f.gamma)
	f.predict(f.boris, f.game2, true, f.alpha, f.beta, f.gamma)

	scoreService := NewScoreService(db)
	assert.Nil(t, scoreService.ScoreTournament(f.tournament.Id))

	rows, err := scoreService.StandingsForGame(f.game1.Id)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "anna", rows[0].PredictorName)
	assert.Equal(t, 7.0, rows[0].TotalPoints)
}
