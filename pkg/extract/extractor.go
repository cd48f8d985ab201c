package extract

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-mlb-exact/internal/logging"
	"github.com/shouni/go-mlb-exact/pkg/fetcher"
)

// ----------------------------------------------------------------------
// 定数定義 (成績ページの構造に関する前提)
// ----------------------------------------------------------------------
const (
	// TeamLeadingColumns は、チーム成績行の先頭にある成績以外の列数です。
	TeamLeadingColumns = 3
	// PitcherLeadingColumns は、投手成績行の先頭にある成績以外の列数 (年度, 年齢, 所属, リーグ) です。
	PitcherLeadingColumns = 4

	// DefaultTeamRowOccurrence は、チーム打撃ページで年度行とみなす一致の位置 (0始まり) です。
	// 同じ年度へのリンクはページ上部の概要にも現れるため、3件目が打撃成績の行になります。
	DefaultTeamRowOccurrence = 2

	teamBattingPathFormat = "/teams/%s/batteam.shtml#yby_team_bat"
)

// Extractor は、Fetcher を使ってチームと投手の成績行を抽出します。
type Extractor struct {
	fetcher           fetcher.Fetcher
	season            int
	aliases           AliasTable
	teamRowOccurrence int
	logger            logrus.FieldLogger
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithAliases は略称の対応表を設定します。
func WithAliases(aliases AliasTable) Option {
	return func(e *Extractor) {
		if aliases != nil {
			e.aliases = aliases
		}
	}
}

// WithTeamRowOccurrence は、チーム打撃ページで採用する一致の位置を設定します。
func WithTeamRowOccurrence(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.teamRowOccurrence = n
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(f fetcher.Fetcher, season int, options ...Option) (*Extractor, error) {
	if f == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	if season <= 0 {
		return nil, fmt.Errorf("extract.NewExtractor: 無効なシーズンです: %d", season)
	}

	e := &Extractor{
		fetcher:           f,
		season:            season,
		aliases:           DefaultAliases(),
		teamRowOccurrence: DefaultTeamRowOccurrence,
		logger:            logging.Discard(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// Season は抽出対象のシーズンを返します。
func (e *Extractor) Season() int {
	return e.season
}
