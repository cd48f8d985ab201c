package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-mlb-exact/pkg/extract"
	"github.com/shouni/go-mlb-exact/pkg/types"
)

var (
	statsURL  string // --url 対象ページのURL (ベースURLからの相対URLも可)
	statsHome bool   // --home ホーム側として扱う (ログ表示のみ)
)

// linkFromURL は、フラグで受け取ったURLから types.Link を組み立てます。
// 名前はURLの末尾要素 (拡張子なし) を使用します。
func linkFromURL(rawURL string) (types.Link, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return types.Link{}, fmt.Errorf("--url フラグでURLを指定してください")
	}
	base := path.Base(strings.TrimSuffix(rawURL, "/"))
	return types.Link{
		Name: strings.TrimSuffix(base, path.Ext(base)),
		URL:  rawURL,
	}, nil
}

func statsSide() types.Side {
	if statsHome {
		return types.Home
	}
	return types.Away
}

// printFields は抽出結果をJSON配列として標準出力に表示します。
func printFields(fields []string) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("JSONデータのシリアライズに失敗しました: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "1チーム分のシーズン打撃成績を抽出して表示します",
	Long:  `チームページのURL (例: /teams/NYY/2024.shtml) から、対象シーズンの打撃成績の行を抽出して表示します。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		team, err := linkFromURL(statsURL)
		if err != nil {
			return err
		}
		// 略称はパスの2番目の要素から取り出すため、絶対URLはパスのみにする
		if u, err := url.Parse(team.URL); err == nil && u.Host != "" {
			team.URL = u.Path
		}
		abbr, err := extract.TeamAbbreviation(team.URL)
		if err != nil {
			return err
		}
		team.Name = abbr

		extractor, err := newExtractor()
		if err != nil {
			return fmt.Errorf("Extractorの初期化エラー: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fields, err := extractor.TeamStats(ctx, team, statsSide())
		if err != nil {
			return fmt.Errorf("チーム成績の抽出エラー: %w", err)
		}
		return printFields(fields)
	},
}

var pitcherCmd = &cobra.Command{
	Use:   "pitcher",
	Short: "1投手分の advanced pitching 成績を抽出して表示します",
	Long:  `投手ページのURL (例: /players/c/colege01.shtml) から、対象シーズンの advanced pitching の行を抽出して表示します。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pitcher, err := linkFromURL(statsURL)
		if err != nil {
			return err
		}

		extractor, err := newExtractor()
		if err != nil {
			return fmt.Errorf("Extractorの初期化エラー: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fields, err := extractor.PitcherStats(ctx, pitcher, statsSide())
		if err != nil {
			return fmt.Errorf("投手成績の抽出エラー: %w", err)
		}
		return printFields(fields)
	},
}

func init() {
	for _, c := range []*cobra.Command{teamCmd, pitcherCmd} {
		c.Flags().StringVarP(&statsURL, "url", "u", "", "抽出対象ページのURL")
		c.Flags().BoolVar(&statsHome, "home", false, "ホーム側として扱います (ログ表示のみ)")
	}
}
