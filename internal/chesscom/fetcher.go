package chesscom

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/models"
)

// DefaultLookbackMonths caps how many calendar months a fetch walks backward.
const DefaultLookbackMonths = 6

// Fetcher accumulates games across monthly archives until a target count is
// reached. The Chess.com API paginates by calendar month, not by count, so
// the fetcher windows backward through time from the current month.
type Fetcher struct {
	client         ClientInterface
	lookbackMonths int
	now            func() time.Time
}

func NewFetcher(client ClientInterface, lookbackMonths int) *Fetcher {
	if lookbackMonths <= 0 {
		lookbackMonths = DefaultLookbackMonths
	}
	return &Fetcher{
		client:         client,
		lookbackMonths: lookbackMonths,
		now:            time.Now,
	}
}

// FetchGames walks monthly archives backward from the current month and stops
// when enough games are collected, the lookback cap is hit, or an empty month
// follows collected history. Known approximation: an inactive month followed
// by older activity ends the walk, so the batch is not a guaranteed-complete
// history.
//
// A 404 month means no games for that window and the walk continues; any other
// per-month failure is logged and skipped so one bad month cannot abort the
// whole fetch. The merged result is sorted by end time descending and
// truncated to limit.
func (f *Fetcher) FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	log.Info("fetching up to %d games", limit)

	var collected []MonthlyGame
	now := f.now().UTC()
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthsChecked := 0

	for len(collected) < limit && monthsChecked < f.lookbackMonths {
		year, month := cursor.Year(), cursor.Month()

		games, err := f.client.FetchMonth(ctx, username, year, month)
		switch {
		case errors.Is(err, ErrMonthNotFound):
			log.Debug("no games found for %04d/%02d", year, int(month))
		case err != nil:
			log.Warn("skipping month %04d/%02d: %v", year, int(month), err)
		default:
			log.Debug("found %d games in %04d/%02d", len(games), year, int(month))
			collected = append(collected, games...)
			if len(games) == 0 && len(collected) > 0 {
				log.Debug("empty month after %d games collected, stopping early", len(collected))
				return f.batch(username, collected, limit, monthsChecked), nil
			}
		}

		cursor = cursor.AddDate(0, -1, 0)
		monthsChecked++
	}

	return f.batch(username, collected, limit, monthsChecked), nil
}

func (f *Fetcher) batch(username string, collected []MonthlyGame, limit, monthsChecked int) *models.GameBatch {
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].EndTime > collected[j].EndTime
	})
	if len(collected) > limit {
		collected = collected[:limit]
	}

	games := make([]models.NormalizedGame, 0, len(collected))
	for _, mg := range collected {
		games = append(games, normalize(mg))
	}

	return &models.GameBatch{
		Platform:      models.PlatformChessCom,
		Username:      username,
		Games:         games,
		TotalFound:    len(games),
		Requested:     limit,
		MonthsChecked: monthsChecked,
		Message:       fmt.Sprintf("Found %d games across %d months", len(games), monthsChecked),
	}
}

func normalize(mg MonthlyGame) models.NormalizedGame {
	id := mg.UUID
	if id == "" {
		id = uuid.NewString()
	}
	return models.NormalizedGame{
		ID:          id,
		White:       models.PlayerInfo{Username: mg.White.Username, Rating: mg.White.Rating},
		Black:       models.PlayerInfo{Username: mg.Black.Username, Rating: mg.Black.Rating},
		Result:      mg.White.Result,
		TimeControl: mg.TimeControl,
		TimeClass:   mg.TimeClass,
		EndTime:     mg.EndTime,
		PGN:         mg.PGN,
		URL:         mg.URL,
	}
}
