package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shouni/go-mlb-exact/pkg/extract"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------

const (
	DefaultBaseURL     = "https://www.baseball-reference.com"
	DefaultListingPath = "/previews/index.shtml"
	DefaultTimeoutSec  = 10
	DefaultConcurrency = 1
	DefaultOutputDir   = "."
	DefaultLogLevel    = "info"

	envPrefix      = "MLB"
	configFileName = "mlb-exact"

	// firstSeason は記録が存在する最初のシーズンです。
	firstSeason = 1871
)

// flagKeys は、cobra のフラグ名と設定キーの対応です。
var flagKeys = map[string]string{
	"base-url":    "base_url",
	"season":      "season",
	"timeout":     "timeout_sec",
	"concurrency": "concurrency",
	"output-dir":  "output_dir",
	"log-level":   "log_level",
}

// Config は、アプリケーション全体の設定を保持します。
type Config struct {
	BaseURL           string            `mapstructure:"base_url"`
	ListingPath       string            `mapstructure:"listing_path"`
	Season            int               `mapstructure:"season"`
	TimeoutSec        int               `mapstructure:"timeout_sec"`
	Concurrency       int               `mapstructure:"concurrency"`
	OutputDir         string            `mapstructure:"output_dir"`
	LogLevel          string            `mapstructure:"log_level"`
	TeamRowOccurrence int               `mapstructure:"team_row_occurrence"`
	TeamAliases       map[string]string `mapstructure:"team_aliases"`
}

// Load は、デフォルト値 → 設定ファイル → 環境変数 (MLB_*) → フラグ の順で設定を読み込みます。
// path が空の場合はカレントディレクトリの mlb-exact.yaml を探し、見つからなくてもエラーにしません。
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("listing_path", DefaultListingPath)
	v.SetDefault("season", time.Now().Year())
	v.SetDefault("timeout_sec", DefaultTimeoutSec)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("team_row_occurrence", extract.DefaultTeamRowOccurrence)
	v.SetDefault("team_aliases", aliasDefaults())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (path: %s): %w", path, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("フラグのバインドに失敗しました (flag: %s): %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定のデコードに失敗しました: %w", err)
	}
	// viper はマップのキーを小文字化するため、大文字に揃え直す
	cfg.TeamAliases = extract.AliasTable(cfg.TeamAliases).Normalize()

	return &cfg, nil
}

// aliasDefaults は、viper がネストしたキーとして展開できる形でデフォルトの対応表を返します。
func aliasDefaults() map[string]any {
	defaults := make(map[string]any)
	for k, v := range extract.DefaultAliases() {
		defaults[k] = v
	}
	return defaults
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("ベースURLのパースエラー: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("ベースURLにホストがありません: %s", c.BaseURL)
	}
	if !strings.HasPrefix(c.ListingPath, "/") {
		return fmt.Errorf("一覧ページのパスは / で始まる必要があります: %s", c.ListingPath)
	}
	if c.Season < firstSeason {
		return fmt.Errorf("無効なシーズンです: %d", c.Season)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("並列実行数は1以上を指定してください: %d", c.Concurrency)
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("タイムアウトは0以上を指定してください: %d", c.TimeoutSec)
	}
	if c.TeamRowOccurrence < 0 {
		return fmt.Errorf("team_row_occurrence は0以上を指定してください: %d", c.TeamRowOccurrence)
	}
	return nil
}

// Timeout は、HTTPリクエストのタイムアウトを返します。
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Aliases は、略称の対応表を返します。
func (c *Config) Aliases() extract.AliasTable {
	return extract.AliasTable(c.TeamAliases)
}

// ListingURL は、ベースURLと一覧ページのパスを連結したURLを返します。
func (c *Config) ListingURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.ListingPath
}
