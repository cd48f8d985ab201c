package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-mlb-exact/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義 (一覧ページの構造に関する前提)
// ----------------------------------------------------------------------
const (
	// gameSummarySelector は、メイン領域内の試合ブロックを選択します。
	// class 属性に game_summary を部分一致で含む div が対象です。
	gameSummarySelector = `#content div[class*="game_summary"]`

	teamsPathPrefix    = "/teams"
	playersPathSegment = "/players"
)

// LinkRule は、アンカーの href が特定の役割 (チーム/投手) を持つかを判定します。
type LinkRule func(href string) bool

// TeamRule は、チームページへのリンクを判定します。
func TeamRule(href string) bool {
	return strings.HasPrefix(href, teamsPathPrefix)
}

// PitcherRule は、選手ページへのリンクを判定します。
func PitcherRule(href string) bool {
	return strings.Contains(href, playersPathSegment)
}

// Parse は一覧ページのHTMLを解析し、試合ブロックごとの Matchup をページ順で返します。
// 壊れたマークアップは許容されます。エラーになるのは読み込み自体に失敗した場合のみです。
func Parse(r io.Reader) ([]types.Matchup, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("一覧ページのHTML解析に失敗しました: %w", err)
	}
	return ParseDocument(doc), nil
}

// ParseDocument は解析済みドキュメントから Matchup を抽出します。
func ParseDocument(doc *goquery.Document) []types.Matchup {
	blocks := doc.Find(gameSummarySelector)
	matchups := make([]types.Matchup, 0, blocks.Length())

	blocks.Each(func(i int, block *goquery.Selection) {
		matchups = append(matchups, parseBlock(block))
	})
	return matchups
}

// parseBlock は1つの試合ブロックからチームと投手のリンクを解決します。
func parseBlock(block *goquery.Selection) types.Matchup {
	anchors := block.Find("a")

	var m types.Matchup
	m.AwayTeam, m.HomeTeam = assignByOrder(anchors, TeamRule)
	m.AwayPitcher, m.HomePitcher = assignByOrder(anchors, PitcherRule)
	return m
}

// assignByOrder は、rule を満たすアンカーを文書順に走査し、
// 1件目をビジター、2件目をホームとして返します。3件目以降は無視します。
// 一覧ページのレイアウトが変わった場合に修正すべき箇所はここだけです。
func assignByOrder(anchors *goquery.Selection, rule LinkRule) (away, home types.Link) {
	found := 0
	anchors.EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || !rule(href) {
			return true
		}
		link := types.Link{
			Name: textUtils.NormalizeText(a.Text()),
			URL:  href,
		}
		switch found {
		case 0:
			away = link
		case 1:
			home = link
		}
		found++
		return found < 2
	})
	return away, home
}
