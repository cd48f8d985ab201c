package scraper

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-mlb-exact/internal/logging"
	"github.com/shouni/go-mlb-exact/pkg/types"
)

const (
	// DefaultMaxConcurrency は、同時に処理する試合数のデフォルトです。
	// 1 の場合は一覧の順に1試合ずつ処理します。
	DefaultMaxConcurrency = 1
)

// StatsExtractor は、チームと投手の成績を抽出する機能のインターフェースです。
// *extract.Extractor がこれを満たします。
type StatsExtractor interface {
	TeamStats(ctx context.Context, team types.Link, side types.Side) ([]string, error)
	PitcherStats(ctx context.Context, pitcher types.Link, side types.Side) ([]string, error)
}

// GameCollector は、一覧から得た Matchup ごとに成績を収集し Game を組み立てます。
type GameCollector struct {
	extractor      StatsExtractor
	maxConcurrency int // 最大並列数を保持するフィールド
	logger         logrus.FieldLogger
}

// NewGameCollector は GameCollector を初期化します。
// 依存性として StatsExtractor と、最大同時実行数を受け取ります。
func NewGameCollector(extractor StatsExtractor, maxConcurrency int, logger logrus.FieldLogger) *GameCollector {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameCollector{
		extractor:      extractor,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Collect は全試合の成績を収集し、一覧と同じ順序で Game を返します。
// 個々のチームや投手の抽出に失敗しても他の試合の処理は継続し、その成績は空になります。
func (c *GameCollector) Collect(ctx context.Context, matchups []types.Matchup) []types.Game {
	games := make([]types.Game, len(matchups))

	var wg sync.WaitGroup
	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, c.maxConcurrency)

	for i, m := range matchups {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, m types.Matchup) {
			defer wg.Done()
			defer func() { <-semaphore }()

			// 各 goroutine は自分のスロットにのみ書き込むため、順序は一覧のまま保たれる
			games[i] = c.collectGame(ctx, i+1, m)
		}(i, m)
	}

	wg.Wait()
	return games
}

// collectGame は1試合分のチーム成績と投手成績を取得します。
func (c *GameCollector) collectGame(ctx context.Context, number int, m types.Matchup) types.Game {
	log := c.logger.WithField("game", number)

	game := types.Game{
		AwayTeam: types.TeamEntry{TeamName: m.AwayTeam.Name, TeamStats: []string{}, PitcherAdvancedStats: []string{}},
		HomeTeam: types.TeamEntry{TeamName: m.HomeTeam.Name, TeamStats: []string{}, PitcherAdvancedStats: []string{}},
	}

	log.Info("チーム成績を取得します")
	if !m.AwayTeam.IsZero() {
		game.AwayTeam.TeamStats = c.teamStats(ctx, log, m.AwayTeam, types.Away)
	}
	if !m.HomeTeam.IsZero() {
		game.HomeTeam.TeamStats = c.teamStats(ctx, log, m.HomeTeam, types.Home)
	}

	log.Info("投手成績を取得します")
	if !m.AwayPitcher.IsZero() {
		game.AwayTeam.PitcherAdvancedStats = c.pitcherStats(ctx, log, m.AwayPitcher, types.Away)
	}
	if !m.HomePitcher.IsZero() {
		game.HomeTeam.PitcherAdvancedStats = c.pitcherStats(ctx, log, m.HomePitcher, types.Home)
	}

	log.Infof("#%d 試合データ (%s) を収集しました", number, game.Label())
	return game
}

func (c *GameCollector) teamStats(ctx context.Context, log logrus.FieldLogger, team types.Link, side types.Side) []string {
	stats, err := c.extractor.TeamStats(ctx, team, side)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"team": team.Name,
			"side": side.String(),
		}).Warn("チーム成績を取得できませんでした。空の成績として扱います")
		return []string{}
	}
	return stats
}

func (c *GameCollector) pitcherStats(ctx context.Context, log logrus.FieldLogger, pitcher types.Link, side types.Side) []string {
	stats, err := c.extractor.PitcherStats(ctx, pitcher, side)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"pitcher": pitcher.Name,
			"side":    side.String(),
		}).Warn("投手成績を取得できませんでした。空の成績として扱います")
		return []string{}
	}
	return stats
}
