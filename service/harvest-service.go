package service

import (
	"log"
	"strconv"
	"strings"
	"time"

	"sovabet/client"
	"sovabet/metrics"
	"sovabet/repository"
	"sovabet/utils"

	"gorm.io/gorm"
)

// HarvestService pulls VK comments from the wall posts of active games
// and stores them as raw predictions. The first three non-empty lines of
// a comment are prefilled as the podium guesses; admins correct them in
// the raw prediction table before (re)running ingestion.
type HarvestService struct {
	vkClient                *client.VKClient
	gameRepository          *repository.GameRepository
	rawPredictionRepository *repository.RawPredictionRepository
}

func NewHarvestService(db *gorm.DB, vkClient *client.VKClient) *HarvestService {
	return &HarvestService{
		vkClient:                vkClient,
		gameRepository:          repository.NewGameRepository(db),
		rawPredictionRepository: repository.NewRawPredictionRepository(db),
	}
}

// HarvestActiveGames harvests every active game that has a wall post.
// A failing game is logged and skipped, the rest of the harvest
// continues.
func (s *HarvestService) HarvestActiveGames() (int, error) {
	active := true
	games, err := s.gameRepository.FindAll(&active)
	if err != nil {
		return 0, err
	}
	games = utils.Filter(games, func(game *repository.Game) bool {
		return game.VkPostId != nil
	})
	harvested := 0
	for _, game := range games {
		count, err := s.HarvestGame(game)
		if err != nil {
			log.Printf("harvest failed for game %d: %v", game.Id, err)
			continue
		}
		harvested += count
	}
	return harvested, nil
}

// HarvestGame stores each new comment on the game's wall post as a raw
// prediction. Comments already harvested are skipped, so the harvest can
// run on a schedule.
func (s *HarvestService) HarvestGame(game *repository.Game) (int, error) {
	if game.VkPostId == nil {
		return 0, nil
	}
	comments, names, err := s.vkClient.GetComments(*game.VkPostId)
	if err != nil {
		return 0, err
	}
	gameReference := strconv.Itoa(game.Id)
	harvested := 0
	for _, comment := range comments {
		if strings.TrimSpace(comment.Text) == "" {
			continue
		}
		timestamp := time.Unix(comment.Date, 0)
		exists, err := s.rawPredictionRepository.ExistsForComment(comment.FromId, gameReference, timestamp)
		if err != nil {
			return harvested, err
		}
		if exists {
			continue
		}
		name := names[comment.FromId]
		if name == "" {
			name = "vk:" + strconv.FormatInt(comment.FromId, 10)
		}
		raw := &repository.RawPrediction{
			Name:      name,
			VkId:      &comment.FromId,
			Timestamp: timestamp,
			Text:      comment.Text,
			Game:      gameReference,
			IsActive:  true,
		}
		raw.Winner, raw.RunnerUp, raw.ThirdPlace = guessesFromText(comment.Text)
		if _, err := s.rawPredictionRepository.Save(raw); err != nil {
			return harvested, err
		}
		metrics.HarvestedCommentsCounter.Inc()
		harvested++
	}
	return harvested, nil
}

// guessesFromText prefills the podium guesses from the first three
// non-empty lines of a comment.
func guessesFromText(text string) (string, string, string) {
	lines := make([]string, 0, 3)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 3 {
			break
		}
	}
	guesses := [3]string{}
	copy(guesses[:], lines)
	return guesses[0], guesses[1], guesses[2]
}
