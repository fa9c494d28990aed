package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Prediction struct {
	Id          int       `gorm:"primaryKey"`
	PredictorId int       `gorm:"not null;uniqueIndex:idx_predictor_game"`
	GameId      int       `gorm:"not null;uniqueIndex:idx_predictor_game"`
	SubmittedAt time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"not null;default:true"`

	// Derived fields, written only through SavePredictionResults.
	TotalPoints  float64 `gorm:"not null;default:0"`
	Winners      int     `gorm:"not null;default:0"`
	RunnersUp    int     `gorm:"not null;default:0"`
	ThirdPlaces  int     `gorm:"not null;default:0"`
	PrizeWinners int     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Predictor *Predictor         `gorm:"foreignKey:PredictorId;constraint:OnDelete:RESTRICT;"`
	Game      *Game              `gorm:"foreignKey:GameId;constraint:OnDelete:RESTRICT;"`
	Events    []*PredictionEvent `gorm:"foreignKey:PredictionId;constraint:OnDelete:CASCADE;"`
}

type PredictionEvent struct {
	Id           int    `gorm:"primaryKey"`
	PredictionId int    `gorm:"not null;uniqueIndex:idx_prediction_result"`
	TeamId       int    `gorm:"not null"`
	Result       Result `gorm:"type:sovabet.result;not null;uniqueIndex:idx_prediction_result"`

	// Derived, written only through SavePredictionResults.
	Points float64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Team *Team `gorm:"foreignKey:TeamId;constraint:OnDelete:RESTRICT;"`
}

// StandingsRow is one leaderboard entry, summed over a predictor's
// active predictions within a scope.
type StandingsRow struct {
	PredictorId     int     `gorm:"column:predictor_id" json:"predictor_id"`
	PredictorName   string  `gorm:"column:predictor_name" json:"predictor_name"`
	PredictorVkId   *int64  `gorm:"column:predictor_vk_id" json:"predictor_vk_id"`
	PredictionCount int     `gorm:"column:prediction_count" json:"count"`
	TotalPoints     float64 `gorm:"column:total_points" json:"total_points"`
	Winners         int     `gorm:"column:winners" json:"winners"`
	RunnersUp       int     `gorm:"column:runners_up" json:"runners_up"`
	ThirdPlaces     int     `gorm:"column:third_places" json:"third_places"`
	PrizeWinners    int     `gorm:"column:prize_winners" json:"prize_winners"`
}

type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{DB: db}
}

func (r *PredictionRepository) GetPredictionById(predictionId int) (*Prediction, error) {
	var prediction Prediction
	result := r.DB.Preload("Events").Preload("Events.Team").Preload("Predictor").First(&prediction, predictionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &prediction, nil
}

func (r *PredictionRepository) GetPredictionByPredictorAndGame(predictorId int, gameId int) (*Prediction, error) {
	var prediction Prediction
	result := r.DB.Where("predictor_id = ? AND game_id = ?", predictorId, gameId).First(&prediction)
	if result.Error != nil {
		return nil, result.Error
	}
	return &prediction, nil
}

func (r *PredictionRepository) GetPredictionsForGame(gameId int, isActive *bool) ([]*Prediction, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetPredictionsForGame"))
	defer timer.ObserveDuration()
	var predictions []*Prediction
	query := r.DB.Preload("Events").Where("game_id = ?", gameId).Order("submitted_at")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&predictions)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictions, nil
}

func (r *PredictionRepository) FindAll(isActive *bool) ([]*Prediction, error) {
	var predictions []*Prediction
	query := r.DB.Preload("Predictor").Preload("Game").Order("submitted_at desc")
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	result := query.Find(&predictions)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictions, nil
}

// GetEventsForPrediction returns a prediction's events in podium order.
// The order is the tie-break for the partial-hit bonus, so it has to be
// deterministic.
func (r *PredictionRepository) GetEventsForPrediction(predictionId int) ([]*PredictionEvent, error) {
	var events []*PredictionEvent
	result := r.DB.Where("prediction_id = ?", predictionId).Order("result").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

// Save persists a prediction and its events but never touches the
// derived score fields, so that only the scoring engine can write them.
func (r *PredictionRepository) Save(prediction *Prediction) (*Prediction, error) {
	result := r.DB.Omit("TotalPoints", "Winners", "RunnersUp", "ThirdPlaces", "PrizeWinners").Save(prediction)
	if result.Error != nil {
		return nil, result.Error
	}
	return prediction, nil
}

func (r *PredictionRepository) CreateEvent(event *PredictionEvent) (*PredictionEvent, error) {
	result := r.DB.Omit("Points").Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

// SavePredictionResults writes the derived score fields of a prediction
// and its events in one transaction. This is the only write path for
// points and hit counters.
func (r *PredictionRepository) SavePredictionResults(prediction *Prediction, events []*PredictionEvent) error {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("SavePredictionResults"))
	defer timer.ObserveDuration()
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, event := range events {
			err := tx.Model(&PredictionEvent{}).Where("id = ?", event.Id).Update("points", event.Points).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&Prediction{}).Where("id = ?", prediction.Id).Updates(map[string]interface{}{
			"total_points":  prediction.TotalPoints,
			"winners":       prediction.Winners,
			"runners_up":    prediction.RunnersUp,
			"third_places":  prediction.ThirdPlaces,
			"prize_winners": prediction.PrizeWinners,
		}).Error
	})
}

func (r *PredictionRepository) SetActive(predictionIds []int, isActive bool) error {
	return r.DB.Model(&Prediction{}).Where("id in ?", predictionIds).Update("is_active", isActive).Error
}

func (r *PredictionRepository) Delete(predictionId int) error {
	result := r.DB.Delete(&Prediction{}, predictionId)
	return result.Error
}

const standingsSelect = `
	predictors.id as predictor_id,
	predictors.name as predictor_name,
	predictors.vk_id as predictor_vk_id,
	count(predictions.id) as prediction_count,
	sum(predictions.total_points) as total_points,
	sum(predictions.winners) as winners,
	sum(predictions.runners_up) as runners_up,
	sum(predictions.third_places) as third_places,
	sum(predictions.prize_winners) as prize_winners`

func (r *PredictionRepository) standingsQuery() *gorm.DB {
	return r.DB.Table("sovabet.predictions").
		Select(standingsSelect).
		Joins("JOIN sovabet.predictors ON predictors.id = predictions.predictor_id").
		Where("predictions.is_active = true").
		Group("predictors.id, predictors.name, predictors.vk_id")
}

// GetStandingsForGame sums every predictor's active predictions on the
// game. Rows come back unordered; the scoring package sorts them.
func (r *PredictionRepository) GetStandingsForGame(gameId int) ([]*StandingsRow, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetStandingsForGame"))
	defer timer.ObserveDuration()
	var rows []*StandingsRow
	result := r.standingsQuery().
		Where("predictions.game_id = ?", gameId).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *PredictionRepository) GetStandingsForTournament(tournamentId int) ([]*StandingsRow, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetStandingsForTournament"))
	defer timer.ObserveDuration()
	var rows []*StandingsRow
	result := r.standingsQuery().
		Joins("JOIN sovabet.games ON games.id = predictions.game_id").
		Where("games.tournament_id = ?", tournamentId).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *PredictionRepository) GetStandingsForSeason(seasonId int) ([]*StandingsRow, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetStandingsForSeason"))
	defer timer.ObserveDuration()
	var rows []*StandingsRow
	result := r.standingsQuery().
		Joins("JOIN sovabet.games ON games.id = predictions.game_id").
		Joins("JOIN sovabet.tournaments ON tournaments.id = games.tournament_id").
		Where("tournaments.season_id = ?", seasonId).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
