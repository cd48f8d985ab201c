package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-mlb-exact/pkg/types"
)

// PitcherStats は、投手のプロフィールページから対象シーズンの
// advanced pitching の行を取得し、成績フィールドを返します。
// side はログ出力にのみ使用します。
func (e *Extractor) PitcherStats(ctx context.Context, pitcher types.Link, side types.Side) ([]string, error) {
	e.logger.WithFields(logrus.Fields{
		"side":    side.String(),
		"pitcher": pitcher.Name,
	}).Info("投手を解決しました")

	if pitcher.IsZero() {
		return nil, fmt.Errorf("投手のURLが空です (pitcher: %q)", pitcher.Name)
	}

	page, err := e.fetcher.Fetch(ctx, pitcher.URL)
	if err != nil {
		return nil, fmt.Errorf("投手ページの取得に失敗しました (pitcher: %s): %w", pitcher.Name, err)
	}

	row, ok := Locate(page, e.pitcherRowPattern(), 0)
	if !ok {
		return nil, fmt.Errorf("%w (pitcher: %s, season: %d)", ErrRowNotFound, pitcher.Name, e.season)
	}

	return DropLeading(SplitFields(row), PitcherLeadingColumns), nil
}

func (e *Extractor) pitcherRowPattern() *regexp.Regexp {
	return regexp.MustCompile(`<tr\sid="pitching_advanced\.` + strconv.Itoa(e.season) + `".*`)
}
