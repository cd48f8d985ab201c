package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-mlb-exact/pkg/types"
)

// ErrInvalidTeamURL は、チームURLから略称を取り出せなかったことを示します。
var ErrInvalidTeamURL = errors.New("チームURLから略称を取得できません")

// TeamStats は、チームのシーズン打撃成績の行を取得し、成績フィールドを返します。
// side はログ出力にのみ使用します。
func (e *Extractor) TeamStats(ctx context.Context, team types.Link, side types.Side) ([]string, error) {
	e.logger.WithFields(logrus.Fields{
		"side": side.String(),
		"team": team.Name,
	}).Info("チームを解決しました")

	abbr, err := TeamAbbreviation(team.URL)
	if err != nil {
		return nil, err
	}
	alias := e.aliases.Resolve(abbr)

	page, err := e.fetcher.Fetch(ctx, fmt.Sprintf(teamBattingPathFormat, alias))
	if err != nil {
		return nil, fmt.Errorf("チーム打撃ページの取得に失敗しました (team: %s): %w", team.Name, err)
	}

	row, ok := Locate(page, e.teamRowPattern(alias), e.teamRowOccurrence)
	if !ok && alias != abbr {
		// 成績ページが旧略称を使っていない年度は元の略称で再検索する
		row, ok = Locate(page, e.teamRowPattern(abbr), e.teamRowOccurrence)
	}
	if !ok {
		return nil, fmt.Errorf("%w (team: %s, abbr: %s, season: %d)", ErrRowNotFound, team.Name, alias, e.season)
	}

	return DropLeading(SplitFields(row), TeamLeadingColumns), nil
}

// teamRowPattern は、年度ページへのリンクで始まる行に一致するパターンを返します。
func (e *Extractor) teamRowPattern(abbr string) *regexp.Regexp {
	return regexp.MustCompile(`<a\shref="/teams/` + regexp.QuoteMeta(abbr) + `/` + strconv.Itoa(e.season) + `\.shtml">.*`)
}

// TeamAbbreviation は "/teams/<ABBR>/..." 形式のURLから略称を返します。
func TeamAbbreviation(teamURL string) (string, error) {
	parts := strings.Split(teamURL, "/")
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTeamURL, teamURL)
	}
	return parts[2], nil
}
