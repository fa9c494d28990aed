// should be in service package, but would lead to circular imports

package scoring

import (
	"log"
	"time"

	"sovabet/metrics"
	"sovabet/repository"

	"gorm.io/gorm"
)

// ScoreService runs the recomputation cascade: a season fans out to its
// tournaments, a tournament to its games, a game to its active
// predictions. Every level is idempotent, so a retried cascade is safe.
type ScoreService struct {
	db                   *gorm.DB
	gameRepository       *repository.GameRepository
	tournamentRepository *repository.TournamentRepository
	predictionRepository *repository.PredictionRepository
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{
		db:                   db,
		gameRepository:       repository.NewGameRepository(db),
		tournamentRepository: repository.NewTournamentRepository(db),
		predictionRepository: repository.NewPredictionRepository(db),
	}
}

// RankPodium loads a game's recorded performances and derives the podium.
func (s *ScoreService) RankPodium(gameId int) (PodiumRanking, error) {
	performances, err := s.gameRepository.GetRankedPerformancesForGame(gameId)
	if err != nil {
		return PodiumRanking{}, err
	}
	return RankPodium(performances), nil
}

// ScorePrediction recomputes a single prediction, deriving the ranking
// from its game's current outcome data.
func (s *ScoreService) ScorePrediction(predictionId int) error {
	prediction, err := s.predictionRepository.GetPredictionById(predictionId)
	if err != nil {
		return err
	}
	ranking, err := s.RankPodium(prediction.GameId)
	if err != nil {
		return err
	}
	return s.scorePrediction(prediction, ranking)
}

func (s *ScoreService) scorePrediction(prediction *repository.Prediction, ranking PodiumRanking) error {
	events, err := s.predictionRepository.GetEventsForPrediction(prediction.Id)
	if err != nil {
		return err
	}
	EvaluatePrediction(prediction, events, ranking)
	err = s.predictionRepository.SavePredictionResults(prediction, events)
	if err != nil {
		return err
	}
	metrics.PredictionsScoredCounter.Inc()
	return nil
}

// ScoreGame computes the ranking once and re-scores every active
// prediction on the game against it.
func (s *ScoreService) ScoreGame(gameId int) error {
	t := time.Now()
	ranking, err := s.RankPodium(gameId)
	if err != nil {
		return err
	}
	active := true
	predictions, err := s.predictionRepository.GetPredictionsForGame(gameId, &active)
	if err != nil {
		return err
	}
	for _, prediction := range predictions {
		if err := s.scorePrediction(prediction, ranking); err != nil {
			return err
		}
	}
	metrics.GameScoringDuration.Observe(time.Since(t).Seconds())
	log.Printf("Scored %d predictions for game %d in %d milliseconds", len(predictions), gameId, time.Since(t).Milliseconds())
	return nil
}

func (s *ScoreService) ScoreTournament(tournamentId int) error {
	games, err := s.gameRepository.GetGamesForTournament(tournamentId, nil)
	if err != nil {
		return err
	}
	for _, game := range games {
		if err := s.ScoreGame(game.Id); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScoreService) ScoreSeason(seasonId int) error {
	tournaments, err := s.tournamentRepository.GetTournamentsForSeason(seasonId, nil)
	if err != nil {
		return err
	}
	for _, tournament := range tournaments {
		if err := s.ScoreTournament(tournament.Id); err != nil {
			return err
		}
	}
	return nil
}

// ResetPrediction zeroes a prediction's derived state without looking at
// outcomes.
func (s *ScoreService) ResetPrediction(predictionId int) error {
	prediction, err := s.predictionRepository.GetPredictionById(predictionId)
	if err != nil {
		return err
	}
	return s.resetPrediction(prediction)
}

func (s *ScoreService) resetPrediction(prediction *repository.Prediction) error {
	events, err := s.predictionRepository.GetEventsForPrediction(prediction.Id)
	if err != nil {
		return err
	}
	ResetPrediction(prediction, events)
	err = s.predictionRepository.SavePredictionResults(prediction, events)
	if err != nil {
		return err
	}
	metrics.PredictionsResetCounter.Inc()
	return nil
}

func (s *ScoreService) ResetGame(gameId int) error {
	active := true
	predictions, err := s.predictionRepository.GetPredictionsForGame(gameId, &active)
	if err != nil {
		return err
	}
	for _, prediction := range predictions {
		if err := s.resetPrediction(prediction); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScoreService) ResetTournament(tournamentId int) error {
	games, err := s.gameRepository.GetGamesForTournament(tournamentId, nil)
	if err != nil {
		return err
	}
	for _, game := range games {
		if err := s.ResetGame(game.Id); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScoreService) ResetSeason(seasonId int) error {
	tournaments, err := s.tournamentRepository.GetTournamentsForSeason(seasonId, nil)
	if err != nil {
		return err
	}
	for _, tournament := range tournaments {
		if err := s.ResetTournament(tournament.Id); err != nil {
			return err
		}
	}
	return nil
}

// StandingsForGame returns the ordered leaderboard over a single game.
func (s *ScoreService) StandingsForGame(gameId int) ([]*repository.StandingsRow, error) {
	rows, err := s.predictionRepository.GetStandingsForGame(gameId)
	if err != nil {
		return nil, err
	}
	SortStandings(rows)
	return rows, nil
}

func (s *ScoreService) StandingsForTournament(tournamentId int) ([]*repository.StandingsRow, error) {
	rows, err := s.predictionRepository.GetStandingsForTournament(tournamentId)
	if err != nil {
		return nil, err
	}
	SortStandings(rows)
	return rows, nil
}

func (s *ScoreService) StandingsForSeason(seasonId int) ([]*repository.StandingsRow, error) {
	rows, err := s.predictionRepository.GetStandingsForSeason(seasonId)
	if err != nil {
		return nil, err
	}
	SortStandings(rows)
	return rows, nil
}
