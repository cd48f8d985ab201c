package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-mlb-exact/internal/config"
	"github.com/shouni/go-mlb-exact/internal/pipeline"
	"github.com/shouni/go-mlb-exact/pkg/scraper"
)

// コマンドラインフラグ変数を定義
var (
	outputDir   string // --output-dir 出力先ディレクトリ
	concurrency int    // --concurrency 同時に処理する試合数
	printStdout bool   // --stdout 結果のJSONを標準出力にも表示する
)

// runTodayPipeline は、当日の試合一覧から出力ファイルを作成するメインロジックです。
func runTodayPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Result, error) {
	extractor, err := newExtractor()
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	runner, err := pipeline.New(GetGlobalFetcher(), extractor, pipeline.Options{
		ListingURL:  cfg.ListingURL(),
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
		Logger:      globalLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("パイプラインの初期化エラー: %w", err)
	}

	return runner.Run(ctx)
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "本日の試合の打撃成績と先発投手の成績を日付付きのJSONファイルに保存します",
	Long: `試合一覧ページから本日の各試合の両チームと予告先発投手を取得し、
チームの打撃成績と相手先発投手の advanced pitching 成績を連結して MLB-<Mon>-<DD>-<YYYY>.json に保存します。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 割り込み (Ctrl+C) で処理中のリクエストを中断する
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := runTodayPipeline(ctx, globalConfig)
		if err != nil {
			return fmt.Errorf("試合データ収集パイプラインの実行エラー: %w", err)
		}

		if printStdout {
			data, err := result.Records.Marshal()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		}

		return nil
	},
}

func init() {
	todayCmd.Flags().StringVarP(&outputDir, "output-dir", "o", config.DefaultOutputDir,
		"出力ファイルを保存するディレクトリ")

	// --concurrency フラグ: 並列実行数の指定
	todayCmd.Flags().IntVarP(&concurrency, "concurrency", "c",
		scraper.DefaultMaxConcurrency,
		fmt.Sprintf("同時に処理する試合数 (デフォルト: %d)", scraper.DefaultMaxConcurrency))

	todayCmd.Flags().BoolVar(&printStdout, "stdout", false, "保存した結果のJSONを標準出力にも表示します")
}
