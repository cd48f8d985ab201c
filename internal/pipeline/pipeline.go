package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-mlb-exact/internal/logging"
	"github.com/shouni/go-mlb-exact/pkg/aggregate"
	"github.com/shouni/go-mlb-exact/pkg/fetcher"
	"github.com/shouni/go-mlb-exact/pkg/listing"
	"github.com/shouni/go-mlb-exact/pkg/scraper"
	"github.com/shouni/go-mlb-exact/pkg/types"
)

// Options は Runner の動作設定です。
type Options struct {
	ListingURL  string // 当日の試合一覧ページ (絶対URL、またはベースURLからの相対URL)
	OutputDir   string // 出力ファイルを書き出すディレクトリ
	Concurrency int    // 同時に処理する試合数
	Now         func() time.Time
	Logger      logrus.FieldLogger
}

// Result は1回の実行結果です。
type Result struct {
	Games      []types.Game
	Records    aggregate.Records
	OutputPath string // 書き込みに失敗した場合は空
	WriteErr   error  // ファイル書き込みのエラー (実行自体は成功扱い)
}

// Runner は、一覧の取得から出力ファイルの書き込みまでの処理パイプラインです。
type Runner struct {
	fetcher   fetcher.Fetcher
	collector *scraper.GameCollector
	opts      Options
}

// New は Runner を初期化します。
func New(f fetcher.Fetcher, extractor scraper.StatsExtractor, opts Options) (*Runner, error) {
	if f == nil {
		return nil, fmt.Errorf("pipeline.New: Fetcher cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("pipeline.New: StatsExtractor cannot be nil")
	}
	if strings.TrimSpace(opts.ListingURL) == "" {
		return nil, fmt.Errorf("pipeline.New: 一覧ページのURLが指定されていません")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &Runner{
		fetcher:   f,
		collector: scraper.NewGameCollector(extractor, opts.Concurrency, opts.Logger),
		opts:      opts,
	}, nil
}

// Run はパイプライン全体を実行します。
// 一覧ページの取得に失敗した場合のみエラーを返し、出力ファイルは作成しません。
// 出力ファイルの書き込み失敗は Result.WriteErr に格納され、警告として記録されます。
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.opts.Logger

	// 1. 一覧ページの取得
	log.WithField("url", r.opts.ListingURL).Info("本日の試合を取得します")
	body, err := r.fetcher.Fetch(ctx, r.opts.ListingURL)
	if err != nil {
		log.WithError(err).Error("コンテンツの取得に失敗しました。終了します")
		return nil, fmt.Errorf("一覧ページの取得エラー: %w", err)
	}
	log.Info("ページのコンテンツを取得しました")

	// 2. 試合ブロックの解析
	matchups, err := listing.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	log.WithField("games", len(matchups)).Info("試合ブロックを解析しました")

	// 3. チーム・投手の成績収集
	games := r.collector.Collect(ctx, matchups)

	// 4. 集約と書き出し
	log.Info("----- 試合データを処理します -----")
	result := &Result{
		Games:   games,
		Records: aggregate.Build(games),
	}

	path, err := result.Records.Write(r.opts.OutputDir, r.opts.Now())
	if err != nil {
		result.WriteErr = err
		log.WithError(err).Warn("ファイルを保存できませんでした")
		return result, nil
	}
	result.OutputPath = path
	log.WithField("path", path).Info("結果を保存しました")

	return result, nil
}
