package cmd

import (
	"fmt"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shouni/go-mlb-exact/internal/config"
	"github.com/shouni/go-mlb-exact/internal/logging"
	"github.com/shouni/go-mlb-exact/pkg/extract"
	"github.com/shouni/go-mlb-exact/pkg/fetcher"
)

// --- グローバル定数 ---

const (
	appName = "mlb-exact"
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec int    // --timeout タイムアウト
	BaseURL    string // --base-url 取得先サイトのベースURL
	Season     int    // --season 対象シーズン
	ConfigPath string // --config-path 設定ファイルのパス
	LogLevel   string // --log-level ログレベル
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数

var (
	globalConfig  *config.Config
	globalLogger  *logrus.Logger
	globalFetcher fetcher.Fetcher
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		config.DefaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.BaseURL,
		"base-url",
		config.DefaultBaseURL,
		"取得先サイトのベースURL",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.Season,
		"season",
		time.Now().Year(),
		"成績を取得するシーズン (年)",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.ConfigPath,
		"config-path",
		"",
		"設定ファイル (YAML) のパス",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.LogLevel,
		"log-level",
		config.DefaultLogLevel,
		"ログレベル (debug, info, warn, error)",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(Flags.ConfigPath, cmd.Flags())
	if err != nil {
		return err
	}

	cfg.BaseURL, err = ensureScheme(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("ベースURLの処理エラー: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定値が不正です: %w", err)
	}

	logger := logging.New(cfg.LogLevel, clibase.Flags.Verbose)
	logger.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"season":   cfg.Season,
		"timeout":  cfg.Timeout().String(),
	}).Debug("設定を読み込みました")

	// 共有フェッチャーの初期化 (リトライなし)
	f, err := fetcher.New(cfg.BaseURL, cfg.Timeout())
	if err != nil {
		return fmt.Errorf("HTTPクライアントの初期化エラー: %w", err)
	}

	globalConfig = cfg
	globalLogger = logger
	globalFetcher = f
	return nil
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() fetcher.Fetcher {
	return globalFetcher
}

// newExtractor は、読み込んだ設定から Extractor を生成します。
func newExtractor() (*extract.Extractor, error) {
	if globalConfig == nil || globalFetcher == nil {
		return nil, fmt.Errorf("設定が初期化されていません。rootコマンドのPreRunを確認してください")
	}
	return extract.NewExtractor(
		GetGlobalFetcher(),
		globalConfig.Season,
		extract.WithAliases(globalConfig.Aliases()),
		extract.WithTeamRowOccurrence(globalConfig.TeamRowOccurrence),
		extract.WithLogger(globalLogger),
	)
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		todayCmd,
		teamCmd,
		pitcherCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
