package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/go-mlb-exact/pkg/types"
)

const (
	fileNamePrefix = "MLB-"
	fileNameLayout = "Jan-02-2006"
	fileNameSuffix = ".json"
)

// Records は、チーム名から出力レコード (打撃成績 ++ 相手先発投手の成績 ++ ホームフラグ) への対応です。
type Records map[string][]any

// Build は試合一覧から出力レコードを組み立てます。
// 同じチーム名が複数の試合に現れた場合は、一覧で後にある試合の内容で上書きされます。
func Build(games []types.Game) Records {
	records := make(Records, len(games)*2)
	for _, g := range games {
		records[g.HomeTeam.TeamName] = record(g.HomeTeam.TeamStats, g.AwayTeam.PitcherAdvancedStats, types.Home)
		records[g.AwayTeam.TeamName] = record(g.AwayTeam.TeamStats, g.HomeTeam.PitcherAdvancedStats, types.Away)
	}
	return records
}

// record は、チーム自身の成績と相手投手の成績を連結し、末尾にフラグを付けます。
func record(teamStats, opposingPitcher []string, side types.Side) []any {
	out := make([]any, 0, len(teamStats)+len(opposingPitcher)+1)
	for _, v := range teamStats {
		out = append(out, v)
	}
	for _, v := range opposingPitcher {
		out = append(out, v)
	}
	return append(out, side.Indicator())
}

// FileName は、実行日のローカル日付から出力ファイル名 (例: MLB-Jun-05-2024.json) を返します。
func FileName(now time.Time) string {
	return fileNamePrefix + now.Format(fileNameLayout) + fileNameSuffix
}

// Marshal は Records をJSONに変換します。
func (r Records) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("JSONデータのシリアライズに失敗しました: %w", err)
	}
	return data, nil
}

// Write は Records を dir 配下の日付付きファイルに書き出し、そのパスを返します。
func (r Records) Write(dir string, now time.Time) (string, error) {
	data, err := r.Marshal()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("ファイルの書き込みに失敗しました (path: %s): %w", path, err)
	}
	return path, nil
}
