package types

// Link は、一覧ページのアンカー1件から取り出した名前とリンク先の組です。
type Link struct {
	Name string // アンカーの表示テキスト (チーム名または投手名)
	URL  string // href 属性の値 (相対URLの場合あり)
}

// IsZero は、Link が未解決 (該当アンカーなし) かどうかを返します。
func (l Link) IsZero() bool {
	return l.URL == ""
}

// Matchup は、一覧パーサーが1つの試合ブロックから解決したリンクの集合です。
// 該当するアンカーが見つからなかったスロットはゼロ値のままです。
type Matchup struct {
	AwayTeam    Link
	HomeTeam    Link
	AwayPitcher Link
	HomePitcher Link
}

// Side は、チームがビジターかホームかを表します。
type Side int

const (
	Away Side = iota
	Home
)

// String はログ出力用の表記を返します。
func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Indicator は、出力レコード末尾に付与するフラグ (ホーム=1, ビジター=0) を返します。
func (s Side) Indicator() int {
	if s == Home {
		return 1
	}
	return 0
}

// TeamEntry は、1チーム分の収集結果です。
// PitcherAdvancedStats にはこのチームの先発投手の成績が入ります。
type TeamEntry struct {
	TeamName             string
	TeamStats            []string
	PitcherAdvancedStats []string
}

// Game は、当日の1試合分の収集結果です。
type Game struct {
	AwayTeam TeamEntry
	HomeTeam TeamEntry
}

// Label は "Away @ Home" 形式の試合表記を返します。
func (g Game) Label() string {
	return g.AwayTeam.TeamName + " @ " + g.HomeTeam.TeamName
}
