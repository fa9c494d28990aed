package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PredictionsScoredCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "sovabet_predictions_scored_total",
		Help: "Number of predictions scored",
	},
)

var PredictionsResetCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "sovabet_predictions_reset_total",
		Help: "Number of predictions reset to zero",
	},
)

var GameScoringDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name: "sovabet_game_scoring_duration_seconds",
		Help: "Duration of a full game recompute",
	},
)

var RawPredictionsProcessedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sovabet_raw_predictions_processed_total",
	Help: "Number of raw predictions processed by ingestion, by outcome",
}, []string{"outcome"})

var HarvestedCommentsCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sovabet_harvested_comments_total",
	Help: "Number of VK comments turned into raw predictions",
})

var VKRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vk_request_total",
	Help: "The total number of requests by method to the VK API",
}, []string{"method"})

var VKResponseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vk_response_total",
	Help: "The total number of responses by status code from the VK API",
}, []string{"status_code"})
